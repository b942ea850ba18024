package app

import "reciclaje-quiz-service/internal/domain"

// DefaultTip is returned when the text model answers with an empty string.
const DefaultTip = "Recuerda separar tus residuos correctamente para facilitar el reciclaje."

// PlaceholderQuestion is shown when a question could not be fetched so the
// quiz never stalls.
var PlaceholderQuestion = domain.QuizQuestion{
	ImageURL:         "https://via.placeholder.com/300?text=Error",
	WasteName:        "Item de prueba",
	CorrectContainer: domain.Recyclable.Option(),
	Justification:    "Modo demo",
}

// DefaultPool returns the built-in fallback items and tips.
func DefaultPool() domain.FallbackPool {
	return domain.FallbackPool{
		Items: []domain.QuizItem{
			{
				Name:          "Botella de plástico",
				Container:     domain.Recyclable.Label(),
				Justification: "Es material reciclable.",
				ImagePrompt:   "realistic photo of a crushed plastic bottle on white background",
			},
			{
				Name:          "Cáscara de banano",
				Container:     domain.Organic.Label(),
				Justification: "Es residuo orgánico.",
				ImagePrompt:   "realistic photo of a banana peel on white background",
			},
			{
				Name:          "Lata de aluminio",
				Container:     domain.Recyclable.Label(),
				Justification: "Es metal reciclable.",
				ImagePrompt:   "realistic photo of an aluminum can on white background",
			},
		},
		Tips: []string{
			"Lleva tu propia bolsa reutilizable al supermercado y reduce el uso de plástico.",
			"Separa tus residuos en casa: aprovechables, orgánicos y no aprovechables.",
			"Reutiliza frascos de vidrio para almacenar alimentos en lugar de comprar nuevos contenedores.",
			"Apaga las luces cuando salgas de una habitación y ahorra energía.",
			"Usa una botella reutilizable en lugar de comprar botellas de plástico desechables.",
		},
	}
}
