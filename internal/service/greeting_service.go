package service

import (
	"os"
	"time"

	"lantern/internal/models"

	"gopkg.in/yaml.v3"
)

// Greeting is one entry from the greetings file.
type Greeting struct {
	Text   string `yaml:"text" json:"text"`
	Author string `yaml:"author,omitempty" json:"author,omitempty"`
}

type greetingFile struct {
	Greetings []Greeting `yaml:"greetings"`
}

// GreetingService serves the daily writing prompt from a YAML fixture.
type GreetingService struct {
	greetings []Greeting
}

// NewGreetingService loads greetings from the YAML file at path.
func NewGreetingService(path string) (*GreetingService, error) {
	raw, err := os.ReadFile(path) // #nosec G304: path comes from configuration
	if err != nil {
		return nil, err
	}

	var f greetingFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	return &GreetingService{greetings: f.Greetings}, nil
}

// Daily returns the greeting for the given day. The rotation is stable within
// a day and steps through the file day by day.
func (s *GreetingService) Daily(day time.Time) (Greeting, error) {
	if len(s.greetings) == 0 {
		return Greeting{}, models.NewNotFoundError("Greeting", "daily")
	}
	idx := day.YearDay() % len(s.greetings)
	return s.greetings[idx], nil
}

// All returns every loaded greeting.
func (s *GreetingService) All() []Greeting {
	return s.greetings
}
