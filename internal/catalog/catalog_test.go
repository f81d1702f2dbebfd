package catalog

import "testing"

func TestLookupKnownKeys(t *testing.T) {
	for _, key := range []string{"seafdec", "A1", "B1", "C1", "D1"} {
		st, ok := Lookup(key)
		if !ok {
			t.Errorf("Lookup(%q) not found", key)
			continue
		}
		if st.Key != key {
			t.Errorf("Lookup(%q).Key = %q", key, st.Key)
		}
	}
}

func TestLookupIsCaseSensitive(t *testing.T) {
	if _, ok := Lookup("b1"); ok {
		t.Error("Lookup(\"b1\") should not match B1")
	}
	if _, ok := Lookup("Seafdec"); ok {
		t.Error("Lookup(\"Seafdec\") should not match seafdec")
	}
}

func TestLookupUnknownKey(t *testing.T) {
	if Valid("Z9") {
		t.Error("Valid(\"Z9\") = true, want false")
	}
	if Valid("") {
		t.Error("Valid(\"\") = true, want false")
	}
}

func TestSourceKeyMapping(t *testing.T) {
	st, _ := Lookup("A1")
	if st.SourceKey != "yipintsoi" {
		t.Errorf("A1 source key = %q, want yipintsoi", st.SourceKey)
	}

	st, _ = Lookup("seafdec")
	if !st.PollSeafdecEndpoints {
		t.Error("seafdec should use the legacy KPI endpoints")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	a := All()
	a[0].Key = "mutated"
	b := All()
	if b[0].Key == "mutated" {
		t.Error("All() exposes internal catalog slice")
	}
}
