package ports

// NATS subjects carrying layer state. A view subscribed to StateSubject(id)
// receives one message per committed version of that layer.
const (
	subjectPrefix = "polylayer.polyline."

	// StreamSubjects matches every layer subject.
	StreamSubjects = subjectPrefix + ">"
)

func StateSubject(id string) string   { return subjectPrefix + id + ".state" }
func RemovedSubject(id string) string { return subjectPrefix + id + ".removed" }

// LayerSubjects matches both the state and removal subjects of one layer.
func LayerSubjects(id string) string { return subjectPrefix + id + ".*" }
