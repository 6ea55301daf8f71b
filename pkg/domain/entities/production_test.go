package entities

import "testing"

func TestProductionStatus_Kind(t *testing.T) {
	testCases := []struct {
		status   ProductionStatus
		expected ProductionStatusKind
	}{
		{"", KindWaiting},
		{StatusWaiting, KindWaiting},
		{StatusDone, KindDone},
		{"WELDING", KindCustom},
	}

	for _, tc := range testCases {
		if got := tc.status.Kind(); got != tc.expected {
			t.Errorf("Expected %s for %q, got %s", tc.expected, tc.status, got)
		}
	}
}

func TestProcessIDFromName(t *testing.T) {
	testCases := map[string]string{
		"Corte Laser":       "CORTE_LASER",
		"  dobra   manual ": "DOBRA_MANUAL",
		"usinagem":          "USINAGEM",
		"inspeção final":    "INSPEÇÃO_FINAL",
	}
	for name, expected := range testCases {
		if got := ProcessIDFromName(name); got != expected {
			t.Errorf("Expected %s for %q, got %s", expected, name, got)
		}
	}
}

func TestNewProductionProcess(t *testing.T) {
	proc, err := NewProductionProcess("Corte Laser", ColorGreen)
	if err != nil {
		t.Fatalf("Expected valid process creation to succeed: %v", err)
	}
	if proc.ID != "CORTE_LASER" || proc.Color != ColorGreen {
		t.Errorf("Expected CORTE_LASER/green, got %s/%s", proc.ID, proc.Color)
	}

	proc, err = NewProductionProcess("Jato", ProcessColor("gold"))
	if err != nil {
		t.Fatalf("Expected process with unknown color to succeed: %v", err)
	}
	if proc.Color != ColorBlue {
		t.Errorf("Expected unknown color to fall back to blue, got %s", proc.Color)
	}

	if _, err := NewProductionProcess(" ", ColorBlue); err == nil {
		t.Errorf("Expected empty name to fail")
	}
	if _, err := NewProductionProcess("done", ColorBlue); err == nil {
		t.Errorf("Expected reserved id to fail")
	}
}

func TestPalette_Allows(t *testing.T) {
	palette := Palette(DefaultProcesses())

	for _, status := range []ProductionStatus{"", StatusWaiting, StatusDone, "CUTTING", "ASSEMBLY"} {
		if !palette.Allows(status) {
			t.Errorf("Expected %q to be allowed", status)
		}
	}
	if palette.Allows("GALVANIZING") {
		t.Errorf("Expected unknown process to be rejected")
	}
	if label := palette.Label("WELDING"); label != "Solda" {
		t.Errorf("Expected label Solda, got %s", label)
	}
}
