package trade

// Agent is the entity offering trades.
type Agent struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	Profession string `json:"profession" yaml:"profession"`
	Type       string `json:"type" yaml:"type"`
	Level      int    `json:"level" yaml:"level"`
	Experience int    `json:"experience" yaml:"experience"`
}
