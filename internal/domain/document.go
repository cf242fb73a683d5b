package domain

// SchemaVersion is the document version written by this build.
const SchemaVersion = 2

// Document is the whole persisted state of the shop.
type Document struct {
	Version  int             `json:"version"`
	Revision int64           `json:"revision"`
	Settings Settings        `json:"settings"`
	Sessions []*TableSession `json:"sessions"`
	Orders   []*Order        `json:"orders"`
}

// NewDocument returns an empty document with default settings.
func NewDocument() *Document {
	return &Document{
		Version:  SchemaVersion,
		Revision: 0,
		Settings: DefaultSettings(),
		Sessions: []*TableSession{},
		Orders:   []*Order{},
	}
}
