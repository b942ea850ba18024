package app

// classifyPrompt is sent with the photo to the vision model.
const classifyPrompt = `Analiza esta imagen de un residuo.
1. Identifica qué objeto es.
2. Clasifícalo en uno de los siguientes contenedores de reciclaje de Colombia:
   - Blanco (Aprovechables): Plástico, vidrio, metales, papel, cartón.
   - Verde (Orgánicos): Restos de comida, desechos agrícolas.
   - Negro (No Aprovechables): Papel higiénico, servilletas, papeles contaminados, cartón contaminado.

Responde ÚNICAMENTE con un objeto JSON válido con este formato (sin markdown):
{
    "container": "Color del Contenedor",
    "details": {
        "confidence": "Alta/Media/Baja",
        "objectName": "Nombre del objeto",
        "reason": "Breve explicación"
    }
}`

// quizItemPrompt asks the text model for exactly one quiz item.
const quizItemPrompt = `Genera 1 objeto de basura común en Colombia para un quiz de reciclaje.
Proporciona:
- name: Nombre del objeto.
- container: El contenedor correcto (Blanco, Negro, Verde) según la norma colombiana.
- justification: Breve explicación de por qué va en ese contenedor.
- imagePrompt: Un prompt detallado para generar una imagen fotorrealista de este objeto en fondo blanco, aislado.

Responde ÚNICAMENTE con un objeto JSON válido (NO un array). Ejemplo:
{ "name": "Botella PET", "container": "Blanco (Aprovechables)", "justification": "Es plástico limpio.", "imagePrompt": "Una botella de plástico transparente vacía y aplastada, fondo blanco studio lighting" }`

// tipPrompt asks for a short plain-text tip.
const tipPrompt = `Genera un consejo breve y práctico sobre reciclaje, medio ambiente o cómo ayudar al planeta desde pequeñas acciones cotidianas.
El consejo debe ser:
- Corto (máximo 2-3 oraciones)
- Práctico y fácil de implementar
- Motivador y positivo
- Relacionado con Colombia cuando sea posible

Responde ÚNICAMENTE con el texto del consejo, sin formato adicional ni comillas.`

const (
	quizItemTemperature float32 = 0.7
	tipTemperature      float32 = 0.8
)
