package models

// FAQEntry is one knowledge-base category: trigger keywords and the
// canonical answer. Loaded once at startup, immutable afterwards.
type FAQEntry struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
	Answer   string   `yaml:"answer"`
}

// ClinicInfo is the static clinic profile used for the general-info
// responses and degraded-mode contact suggestions.
type ClinicInfo struct {
	Location     string `yaml:"location"`
	Hours        string `yaml:"hours"`
	Service      string `yaml:"service"`
	Duration     string `yaml:"duration"`
	Price        string `yaml:"price"`
	ContactEmail string `yaml:"contact_email"`
	ContactPhone string `yaml:"contact_phone"`
	Staff        string `yaml:"staff"`
	Description  string `yaml:"description"`
}
