package event

// BehaviorFact maps a fact to a Behavior.
type BehaviorFact struct {
	Name        string `mapstructure:"name" json:"name" default:"Livestream"`
	YesValue    string `mapstructure:"yes_value" json:"yes_value" default:"Ja"`
	NoValue     string `mapstructure:"no_value" json:"no_value" default:"Nein"`
	IgnoreValue string `mapstructure:"ignore_value" json:"ignore_value" default:"Ignorieren"`
	Default     string `mapstructure:"default" json:"default" default:"Nein"`
}

// VisibilityFact maps a fact to a Visibility.
type VisibilityFact struct {
	Name          string `mapstructure:"name" json:"name" default:"Sichtbarkeit"`
	VisibleValue  string `mapstructure:"visible_value" json:"visible_value" default:"öffentlich"`
	UnlistedValue string `mapstructure:"unlisted_value" json:"unlisted_value" default:"nicht gelistet"`
	PrivateValue  string `mapstructure:"private_value" json:"private_value" default:"privat"`
	Default       string `mapstructure:"default" json:"default" default:"öffentlich"`
}

// BoolFact maps a fact to a flag. An empty Name disables the capability.
type BoolFact struct {
	Name     string `mapstructure:"name" json:"name"`
	YesValue string `mapstructure:"yes_value" json:"yes_value" default:"Ja"`
	Default  bool   `mapstructure:"default" json:"default"`
}

// FactsConfig names the facts that drive reconciliation.
type FactsConfig struct {
	Behavior              BehaviorFact   `mapstructure:"behavior" json:"behavior"`
	Visibility            VisibilityFact `mapstructure:"visibility" json:"visibility"`
	IncludeLinkInCalendar BoolFact       `mapstructure:"include_link" json:"include_link"`
	ShowOnHomepage        BoolFact       `mapstructure:"show_on_homepage" json:"show_on_homepage"`
	CreatePost            BoolFact       `mapstructure:"create_post" json:"create_post"`
}

// Validate checks that the configured defaults resolve. It is the fail-fast
// counterpart of Interpret and runs before any remote call.
func (c FactsConfig) Validate() error {
	if _, err := c.Behavior.resolveDefault(); err != nil {
		return err
	}
	_, err := c.Visibility.parse(c.Visibility.Default)
	return err
}

// Interpret derives the FactSet of an event from its raw facts. Missing
// facts resolve to the configured defaults. Only an unparseable visibility
// or a broken default yields an error.
func Interpret(facts map[string]string, cfg FactsConfig) (FactSet, error) {
	var fs FactSet

	behavior, err := cfg.Behavior.interpret(facts)
	if err != nil {
		return FactSet{}, err
	}
	fs.Behavior = behavior

	visibility, err := cfg.Visibility.interpret(facts)
	if err != nil {
		return FactSet{}, err
	}
	fs.Visibility = visibility

	fs.IncludeLinkInCalendar = cfg.IncludeLinkInCalendar.interpret(facts)
	fs.ShowOnHomepage = cfg.ShowOnHomepage.interpret(facts)
	fs.CreatePost = cfg.CreatePost.interpret(facts)
	return fs, nil
}

func (f BehaviorFact) match(value string) (Behavior, bool) {
	switch value {
	case f.YesValue:
		return BehaviorCreate, true
	case f.IgnoreValue:
		return BehaviorIgnore, true
	case f.NoValue:
		return BehaviorSuppress, true
	}
	return 0, false
}

func (f BehaviorFact) resolveDefault() (Behavior, error) {
	b, ok := f.match(f.Default)
	if !ok {
		return 0, &ConfigError{
			Key:      f.Name + " (default)",
			Value:    f.Default,
			Accepted: []string{f.YesValue, f.NoValue, f.IgnoreValue},
		}
	}
	return b, nil
}

func (f BehaviorFact) interpret(facts map[string]string) (Behavior, error) {
	if value, ok := facts[f.Name]; ok {
		if b, ok := f.match(value); ok {
			return b, nil
		}
	}
	return f.resolveDefault()
}

func (f VisibilityFact) parse(value string) (Visibility, error) {
	switch value {
	case f.VisibleValue:
		return VisibilityPublic, nil
	case f.UnlistedValue:
		return VisibilityUnlisted, nil
	case f.PrivateValue:
		return VisibilityPrivate, nil
	}
	return "", &ConfigError{
		Key:      f.Name,
		Value:    value,
		Accepted: []string{f.VisibleValue, f.UnlistedValue, f.PrivateValue},
	}
}

func (f VisibilityFact) interpret(facts map[string]string) (Visibility, error) {
	value, ok := facts[f.Name]
	if !ok {
		value = f.Default
	}
	return f.parse(value)
}

func (f BoolFact) interpret(facts map[string]string) bool {
	if f.Name == "" {
		return false
	}
	value, ok := facts[f.Name]
	if !ok {
		return f.Default
	}
	return value == f.YesValue
}
