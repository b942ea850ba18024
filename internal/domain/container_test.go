package domain

import "testing"

func TestParseContainer(t *testing.T) {
	cases := map[string]Container{
		"Blanco (Aprovechables)":   Recyclable,
		"blanco":                   Recyclable,
		"  NEGRO ":                 NonRecyclable,
		"Negro (No Aprovechables)": NonRecyclable,
		"Verde (Orgánicos)":        Organic,
		"verde (organicos)":        Organic,
		"Orgánicos":                Organic,
		"No aprovechables":         NonRecyclable,
		"Aprovechables":            Recyclable,
	}
	for in, want := range cases {
		got, err := ParseContainer(in)
		if err != nil {
			t.Fatalf("ParseContainer(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseContainer(%q) = %v, want %v", in, got, want)
		}
	}

	for _, bad := range []string{"", "Azul", "caneca roja"} {
		if _, err := ParseContainer(bad); err == nil {
			t.Fatalf("ParseContainer(%q) should fail", bad)
		}
	}
}

func TestOptions(t *testing.T) {
	opts := Options()
	if len(opts) != 3 || opts[0] != "Blanco" || opts[1] != "Negro" || opts[2] != "Verde" {
		t.Fatalf("unexpected options %v", opts)
	}
	if !IsOption("Verde") || IsOption("Verde (Orgánicos)") || IsOption("verde") {
		t.Fatal("IsOption must accept only the exact button labels")
	}
	for _, c := range Containers {
		got, err := ParseContainer(c.Label())
		if err != nil || got != c {
			t.Fatalf("label %q does not round-trip: %v %v", c.Label(), got, err)
		}
	}
}

func TestParseConfidence(t *testing.T) {
	if ParseConfidence("Alta") != ConfidenceHigh || ParseConfidence(" media ") != ConfidenceMedium {
		t.Fatal("known confidences not parsed")
	}
	if ParseConfidence("segurísimo") != ConfidenceLow {
		t.Fatal("unknown confidence should map to Baja")
	}
}
