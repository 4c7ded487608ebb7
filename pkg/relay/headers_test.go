package relay

import (
	"net/http"
	"reflect"
	"testing"
)

func TestHeaderFilter_Filter(t *testing.T) {
	filter := NewHeaderFilter([]string{" X-Trace", "Authorization ", "", "x-lower"})

	in := http.Header{}
	in.Set("X-Trace", "abc")
	in.Add("Authorization", "Bearer one")
	in.Add("Authorization", "Bearer two")
	in.Set("X-Other", "dropped")
	in.Set("X-Lower", "dropped")
	in.Set("Target-Domain", "https://good.example.com")

	got := filter.Filter(in)
	want := http.Header{
		"X-Trace":       {"abc"},
		"Authorization": {"Bearer one", "Bearer two"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Filter() = %v, want %v", got, want)
	}

	got["X-Trace"][0] = "mutated"
	if in.Get("X-Trace") != "abc" {
		t.Error("Filter() shares value slices with the input")
	}
}

func TestHeaderFilter_Empty(t *testing.T) {
	filter := NewHeaderFilter(nil)

	in := http.Header{}
	in.Set("X-Trace", "abc")

	if got := filter.Filter(in); len(got) != 0 {
		t.Errorf("Filter() = %v, want empty", got)
	}
	if filter.Allows("") {
		t.Error("empty name must not be allowed")
	}
}
