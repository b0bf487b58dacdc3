package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/scheduler"
)

// DateLayout is the layout of dates in the config file
const DateLayout = "2006-01-02"

// CampConfig describes the camp session being scheduled
type CampConfig struct {
	Name         string `yaml:"name,omitempty"`
	StartDate    string `yaml:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	NumberOfDays int    `yaml:"numberOfDays,omitempty" validate:"min=0"`
}

// WeightsConfig overrides the soft constraint weights
type WeightsConfig struct {
	BaseScore             float64 `yaml:"baseScore"`
	AgePriorityMultiplier float64 `yaml:"agePriorityMultiplier" validate:"min=0"`
	VarietyPenalty        float64 `yaml:"varietyPenalty" validate:"min=0"`
	VarietyBonus          float64 `yaml:"varietyBonus" validate:"min=0"`
	SocialGroupingBonus   float64 `yaml:"socialGroupingBonus" validate:"min=0"`
	FavoriteAreaBonus     float64 `yaml:"favoriteAreaBonus" validate:"min=0"`
	AvoidAreaPenalty      float64 `yaml:"avoidAreaPenalty" validate:"min=0"`
	TravelFitBonus        float64 `yaml:"travelFitBonus" validate:"min=0"`
	TravelMissPenalty     float64 `yaml:"travelMissPenalty" validate:"min=0"`
	UtilizationBonus      float64 `yaml:"utilizationBonus" validate:"min=0"`
	UtilizationPenalty    float64 `yaml:"utilizationPenalty" validate:"min=0"`
}

// SchedulerConfig holds the engine options
type SchedulerConfig struct {
	AllowedTransitionTime int           `yaml:"allowedTransitionTime" validate:"min=1"`
	NoRepeatsDays         int           `yaml:"noRepeatsDays" validate:"min=0"`
	CabinMergingModel     string        `yaml:"cabinMergingModel"`
	Seed                  *uint64       `yaml:"seed,omitempty"`
	Weights               WeightsConfig `yaml:"weights"`
}

// PeriodTemplate is expanded into one period per camp day
type PeriodTemplate struct {
	ID          string   `yaml:"id" validate:"required"`
	Name        string   `yaml:"name,omitempty"`
	StartTime   int      `yaml:"startTime" validate:"min=0,max=2400"`
	EndTime     int      `yaml:"endTime" validate:"min=0,max=2400"`
	ClosedAreas []string `yaml:"closedAreas,omitempty"`

	// ChoiceDays marks the days on which this period is a choice period
	ChoiceDays []int `yaml:"choiceDays,omitempty" validate:"dive,min=1"`
}

// PeriodConfig is a single period occurrence
type PeriodConfig struct {
	ID             string   `yaml:"id" validate:"required"`
	Name           string   `yaml:"name,omitempty"`
	Day            int      `yaml:"day" validate:"min=1"`
	StartTime      int      `yaml:"startTime" validate:"min=0,max=2400"`
	EndTime        int      `yaml:"endTime" validate:"min=0,max=2400"`
	IsChoicePeriod bool     `yaml:"isChoicePeriod,omitempty"`
	ClosedAreas    []string `yaml:"closedAreas,omitempty"`
}

// AccessibilityConfig lists age groups allowed or forbidden in an area
type AccessibilityConfig struct {
	Allowed   []string `yaml:"allowed,omitempty"`
	Forbidden []string `yaml:"forbidden,omitempty"`
}

// DoubleBookingConfig is an area's double-booking policy
type DoubleBookingConfig struct {
	Likelihood string `yaml:"likelihood,omitempty" validate:"omitempty,oneof=always sometimes never"`
	Scope      string `yaml:"scope,omitempty" validate:"omitempty,oneof=sameUnit anyUnit"`
}

// AreaConfig describes an activity area
type AreaConfig struct {
	ID                 string              `yaml:"id" validate:"required"`
	Name               string              `yaml:"name,omitempty"`
	MaxCapacity        int                 `yaml:"maxCapacity" validate:"min=0"`
	MinCapacity        *int                `yaml:"minCapacity,omitempty" validate:"omitempty,min=0"`
	Category           string              `yaml:"category,omitempty"`
	WeatherSensitive   bool                `yaml:"weatherSensitive,omitempty"`
	Aliases            []string            `yaml:"aliases,omitempty"`
	LinkedAreas        []string            `yaml:"linkedAreas,omitempty"`
	BufferPeriods      int                 `yaml:"bufferPeriods,omitempty" validate:"min=0"`
	Accessibility      AccessibilityConfig `yaml:"accessibility,omitempty"`
	DoubleBooking      DoubleBookingConfig `yaml:"doubleBooking,omitempty"`
	AlternatesDays     bool                `yaml:"alternatesDays,omitempty"`
	AlternateDayOffset *int                `yaml:"alternateDayOffset,omitempty"`
	TravelTime         int                 `yaml:"travelTime,omitempty" validate:"min=0"`
}

// PreferencesConfig lists a cabin's favourite and avoided areas
type PreferencesConfig struct {
	FavoriteAreas []string `yaml:"favoriteAreas,omitempty"`
	AvoidAreas    []string `yaml:"avoidAreas,omitempty"`
}

// RestrictionsConfig lists periods and areas a cabin may never use
type RestrictionsConfig struct {
	BlackoutPeriods []string `yaml:"blackoutPeriods,omitempty"`
	BlackoutAreas   []string `yaml:"blackoutAreas,omitempty"`
}

// CabinConfig describes a cabin
type CabinConfig struct {
	ID           string             `yaml:"id" validate:"required"`
	Name         string             `yaml:"name,omitempty"`
	AgeGroup     string             `yaml:"ageGroup,omitempty"`
	Unit         string             `yaml:"unit,omitempty"`
	Size         int                `yaml:"size,omitempty" validate:"min=0"`
	Priority     int                `yaml:"priority,omitempty"`
	SocialGroups []string           `yaml:"socialGroups,omitempty"`
	Preferences  PreferencesConfig  `yaml:"preferences,omitempty"`
	Restrictions RestrictionsConfig `yaml:"restrictions,omitempty"`
}

// AgeGroupPriority boosts an area for an age group
type AgeGroupPriority struct {
	AgeGroup string `yaml:"ageGroup" validate:"required"`
	AreaID   string `yaml:"areaId" validate:"required"`
	Priority int    `yaml:"priority"`
}

// UtilizationGoal sets a target utilization for an area
type UtilizationGoal struct {
	AreaID            string   `yaml:"areaId" validate:"required"`
	TargetUtilization *float64 `yaml:"targetUtilization,omitempty" validate:"omitempty,min=0"`
}

// SeedAssignment is a manual override or choice period assignment
type SeedAssignment struct {
	CabinID  string `yaml:"cabinId" validate:"required"`
	AreaID   string `yaml:"areaId" validate:"required"`
	PeriodID string `yaml:"periodId" validate:"required"`
	Day      int    `yaml:"day" validate:"min=1"`
}

// Blackout removes a cabin from one period occurrence
type Blackout struct {
	CabinID  string `yaml:"cabinId" validate:"required"`
	PeriodID string `yaml:"periodId" validate:"required"`
	Day      int    `yaml:"day" validate:"min=1"`
}

// MergeInstruction asks for cabins to be combined
type MergeInstruction struct {
	CabinID   string   `yaml:"cabinId" validate:"required"`
	MergeWith []string `yaml:"mergeWith,omitempty"`
	Note      string   `yaml:"note,omitempty"`
}

// RecurringClosure closes an area on the camp days matched by an rrule
type RecurringClosure struct {
	AreaID string `yaml:"areaId" validate:"required"`

	// PeriodIDs limits the closure to some periods. Empty closes the area all day.
	PeriodIDs []string `yaml:"periodIds,omitempty"`
	RRule     string   `yaml:"rrule" validate:"required"`
}

// FilterConfig narrows the catalog before scheduling
type FilterConfig struct {
	Units      []string `yaml:"units,omitempty"`
	Categories []string `yaml:"categories,omitempty"`
	AreaIDs    []string `yaml:"areaIds,omitempty"`
}

// OutputConfig controls where the schedule is written
type OutputConfig struct {
	Format string `yaml:"format" validate:"oneof=json csv xlsx pdf"`
	Path   string `yaml:"path,omitempty"`
}

// MetricsConfig controls run metrics output
type MetricsConfig struct {
	TextfilePath string `yaml:"textfilePath,omitempty"`
}

// Config represents the application configuration
type Config struct {
	Camp      CampConfig      `yaml:"camp"`
	Scheduler SchedulerConfig `yaml:"scheduler"`

	// CatalogEnvFile synthesises cabins, areas and periods from an env file instead of the lists below
	CatalogEnvFile string       `yaml:"catalogEnvFile,omitempty"`
	Filter         FilterConfig `yaml:"filter,omitempty"`

	PeriodTemplates []PeriodTemplate `yaml:"periodTemplates,omitempty" validate:"dive"`
	Periods         []PeriodConfig   `yaml:"periods,omitempty" validate:"dive"`
	Areas           []AreaConfig     `yaml:"areas,omitempty" validate:"dive"`
	Cabins          []CabinConfig    `yaml:"cabins,omitempty" validate:"dive"`

	AgeGroupPriorities   []AgeGroupPriority `yaml:"ageGroupPriorities,omitempty" validate:"dive"`
	AreaUtilizationGoals []UtilizationGoal  `yaml:"areaUtilizationGoals,omitempty" validate:"dive"`
	ManualOverrides      []SeedAssignment   `yaml:"manualOverrides,omitempty" validate:"dive"`
	ChoicePeriods        []SeedAssignment   `yaml:"choicePeriods,omitempty" validate:"dive"`
	BlackoutPeriods      []Blackout         `yaml:"blackoutPeriods,omitempty" validate:"dive"`
	MergeInstructions    []MergeInstruction `yaml:"mergeInstructions,omitempty" validate:"dive"`
	RecurringClosures    []RecurringClosure `yaml:"recurringClosures,omitempty" validate:"dive"`

	Output  OutputConfig  `yaml:"output"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns a configuration holding every default value
func Default() *Config {
	weights := scheduler.DefaultWeights()
	return &Config{
		Scheduler: SchedulerConfig{
			AllowedTransitionTime: scheduler.DefaultAllowedTransitionTime,
			NoRepeatsDays:         scheduler.DefaultNoRepeatsDays,
			CabinMergingModel:     scheduler.MergingModelNone,
			Weights: WeightsConfig{
				BaseScore:             weights.BaseScore,
				AgePriorityMultiplier: weights.AgePriorityMultiplier,
				VarietyPenalty:        weights.VarietyPenalty,
				VarietyBonus:          weights.VarietyBonus,
				SocialGroupingBonus:   weights.SocialGroupingBonus,
				FavoriteAreaBonus:     weights.FavoriteAreaBonus,
				AvoidAreaPenalty:      weights.AvoidAreaPenalty,
				TravelFitBonus:        weights.TravelFitBonus,
				TravelMissPenalty:     weights.TravelMissPenalty,
				UtilizationBonus:      weights.UtilizationBonus,
				UtilizationPenalty:    weights.UtilizationPenalty,
			},
		},
		Output: OutputConfig{Format: "json"},
	}
}

// LoadWithEnv loads and validates the configuration for an environment.
// For example, env="test" looks for "camp_scheduler.test.yaml", then "camp_scheduler.yaml",
// in the current directory first and then in the user's home directory.
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// Relative catalog paths are resolved against the config file's directory.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if cfg.CatalogEnvFile != "" && !filepath.IsAbs(cfg.CatalogEnvFile) {
		cfg.CatalogEnvFile = filepath.Join(filepath.Dir(path), cfg.CatalogEnvFile)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse decodes a YAML document on top of the defaults. Unknown keys are rejected.
// The result is not validated.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration struct, then checks cross references and rrule syntax
func Validate(cfg *Config) error {
	// Run struct validation
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	var errs error

	if cfg.CatalogEnvFile == "" && len(cfg.Cabins) == 0 {
		errs = multierr.Append(errs, errors.New("no cabins configured and no catalogEnvFile set"))
	}
	if len(cfg.PeriodTemplates) > 0 && cfg.Camp.NumberOfDays == 0 {
		errs = multierr.Append(errs, errors.New("periodTemplates require camp.numberOfDays"))
	}
	if len(cfg.RecurringClosures) > 0 && cfg.Camp.StartDate == "" {
		errs = multierr.Append(errs, errors.New("recurringClosures require camp.startDate"))
	}

	errs = multierr.Append(errs, validatePeriods(cfg))
	errs = multierr.Append(errs, validateAreas(cfg))
	errs = multierr.Append(errs, validateCabins(cfg))

	// Validate rrule syntax for each closure
	for i, closure := range cfg.RecurringClosures {
		if _, err := rrule.StrToRRule(closure.RRule); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("invalid rrule in recurringClosures[%d]: %w", i, err))
		}
	}

	if errs != nil {
		return fmt.Errorf("config validation failed: %w", errs)
	}
	return nil
}

func validatePeriods(cfg *Config) error {
	var errs error

	for i, tmpl := range cfg.PeriodTemplates {
		if tmpl.EndTime <= tmpl.StartTime {
			errs = multierr.Append(errs, fmt.Errorf("periodTemplates[%d] %q: endTime must be after startTime", i, tmpl.ID))
		}
	}

	seen := make(map[string]bool)
	for i, p := range cfg.Periods {
		if p.EndTime <= p.StartTime {
			errs = multierr.Append(errs, fmt.Errorf("periods[%d] %q: endTime must be after startTime", i, p.ID))
		}
		key := fmt.Sprintf("%d/%s", p.Day, p.ID)
		if seen[key] {
			errs = multierr.Append(errs, fmt.Errorf("periods[%d]: duplicate period %q on day %d", i, p.ID, p.Day))
		}
		seen[key] = true
	}

	return errs
}

func validateAreas(cfg *Config) error {
	var errs error

	ids := make(map[string]bool, len(cfg.Areas))
	for i, area := range cfg.Areas {
		if ids[area.ID] {
			errs = multierr.Append(errs, fmt.Errorf("areas[%d]: duplicate area id %q", i, area.ID))
		}
		ids[area.ID] = true
	}

	for i, area := range cfg.Areas {
		for _, linked := range area.LinkedAreas {
			if !ids[linked] {
				errs = multierr.Append(errs, fmt.Errorf("areas[%d] %q: unknown linked area %q", i, area.ID, linked))
			}
		}
	}

	return errs
}

func validateCabins(cfg *Config) error {
	var errs error

	ids := make(map[string]bool, len(cfg.Cabins))
	for i, cabin := range cfg.Cabins {
		if ids[cabin.ID] {
			errs = multierr.Append(errs, fmt.Errorf("cabins[%d]: duplicate cabin id %q", i, cabin.ID))
		}
		ids[cabin.ID] = true
	}

	return errs
}

// findConfigFile searches for the environment's config file in the current directory and home directory
func findConfigFile(env string) (string, error) {
	candidates := []string{"camp_scheduler.yaml"}
	if env != "" {
		candidates = []string{fmt.Sprintf("camp_scheduler.%s.yaml", env), "camp_scheduler.yaml"}
	}

	// Check current directory
	for _, name := range candidates {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	for _, name := range candidates {
		homeConfigPath := filepath.Join(homeDir, name)
		if _, err := os.Stat(homeConfigPath); err == nil {
			return homeConfigPath, nil
		}
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
