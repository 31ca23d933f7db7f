package ports

import (
	"strings"
	"testing"
)

func TestSubjects(t *testing.T) {
	const id = "3f1c"
	if got := StateSubject(id); got != "polylayer.polyline.3f1c.state" {
		t.Errorf("StateSubject = %q", got)
	}
	if got := RemovedSubject(id); got != "polylayer.polyline.3f1c.removed" {
		t.Errorf("RemovedSubject = %q", got)
	}

	// Every per-layer subject must fall under the stream and the layer wildcard.
	for _, s := range []string{StateSubject(id), RemovedSubject(id)} {
		if !strings.HasPrefix(s, strings.TrimSuffix(StreamSubjects, ">")) {
			t.Errorf("%s is outside %s", s, StreamSubjects)
		}
		if !strings.HasPrefix(s, strings.TrimSuffix(LayerSubjects(id), "*")) {
			t.Errorf("%s is not matched by %s", s, LayerSubjects(id))
		}
	}
}
