package legacy

import "testing"

func TestStartRow(t *testing.T) {
	tests := []struct {
		page, pageSize, expected int
	}{
		{1, 50, 1},
		{2, 50, 51},
		{3, 50, 101},
		{1, 1, 1},
		{10, 100, 901},
	}

	for _, tt := range tests {
		if got := StartRow(tt.page, tt.pageSize); got != tt.expected {
			t.Errorf("StartRow(%d, %d) = %d, expected %d", tt.page, tt.pageSize, got, tt.expected)
		}
	}
}

func TestRowWindowDialect(t *testing.T) {
	d := RowWindowDialect{}

	got := d.SelectPage([]string{"codi_for", "nome_for"}, "bethadba.effornece", "codi_emp = ?", "codi_for", 100, 201)
	expected := "SELECT TOP 100 START AT 201 codi_for, nome_for FROM bethadba.effornece WHERE codi_emp = ? ORDER BY codi_for"
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}

	got = d.SelectPage([]string{"codi_emp"}, "bethadba.geempre", "", "codi_emp", 25, 1)
	expected = "SELECT TOP 25 START AT 1 codi_emp FROM bethadba.geempre ORDER BY codi_emp"
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestOffsetLimitDialect(t *testing.T) {
	d := OffsetLimitDialect{}

	got := d.SelectPage([]string{"codi_for"}, "bethadba.effornece", "codi_emp = ?", "codi_for", 50, 101)
	expected := "SELECT codi_for FROM bethadba.effornece WHERE codi_emp = ? ORDER BY codi_for LIMIT 50 OFFSET 100"
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}
