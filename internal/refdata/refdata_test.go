package refdata

import "testing"

func TestDepartments(t *testing.T) {
	names := DepartmentNames()
	if len(names) != 20 {
		t.Fatalf("expected 20 departments, got %d", len(names))
	}

	code, ok := DepartmentCode("Police")
	if !ok || code != "POL" {
		t.Errorf("DepartmentCode(Police) = %q, %v", code, ok)
	}

	// The technology code carries a trailing space in the source data.
	code, ok = DepartmentCode("GSA - Technology")
	if !ok || code != "DT " {
		t.Errorf("DepartmentCode(GSA - Technology) = %q, %v", code, ok)
	}

	if !ValidDepartmentCode("AIR") || ValidDepartmentCode("XXX") {
		t.Error("ValidDepartmentCode misclassified a code")
	}

	// Accessors hand out copies: mutation must not leak back.
	m := Departments()
	m["Police"] = "BAD"
	if code, _ := DepartmentCode("Police"); code != "POL" {
		t.Error("Departments() must return a copy")
	}
}

func TestTimeWindows(t *testing.T) {
	windows := TimeWindows()
	if len(windows) != 6 {
		t.Fatalf("expected 6 windows, got %d", len(windows))
	}
	if windows[0] != DefaultTimeWindowDays {
		t.Errorf("first window = %d, want the default %d", windows[0], DefaultTimeWindowDays)
	}

	for _, days := range windows {
		if !ValidTimeWindow(days) {
			t.Errorf("window %d should be valid", days)
		}
	}
	if ValidTimeWindow(14) {
		t.Error("14 is not a selectable window")
	}
}

func TestCommoditiesAndVendors(t *testing.T) {
	if len(Commodities()) != 20 {
		t.Errorf("expected 20 commodities, got %d", len(Commodities()))
	}
	if len(Vendors()) != 20 {
		t.Errorf("expected 20 vendors, got %d", len(Vendors()))
	}

	if !ValidCommodity("FURNITURE: OFFICE") {
		t.Error("known commodity rejected")
	}
	if !ValidVendor("Jimmie Muscatello's") {
		t.Error("known vendor rejected")
	}
	if ValidCommodity("ROCKETS") || ValidVendor("ACME CORP") {
		t.Error("unknown entries accepted")
	}
}
