package config

import "github.com/DNAi-inc/DNUDS/internal/util"

// ProfileName is one of the four named configuration presets.
type ProfileName string

const (
	DebugSample      ProfileName = "debug_sample"
	SchemaSample     ProfileName = "schema_sample"
	SmokeTestSample  ProfileName = "smoke_test_sample"
	PrivacySample    ProfileName = "privacy_sample"
)

// Profile is a preset bundle of sampler configuration defaults.
type Profile struct {
	SamplingMode string
	TargetRows   int
	KeyColumns   []string
	Seed         *int64
}

var profiles = map[ProfileName]Profile{
	DebugSample: {
		SamplingMode: "random",
		TargetRows:   1000,
	},
	SchemaSample: {
		SamplingMode: "stratified",
		TargetRows:   100,
	},
	SmokeTestSample: {
		SamplingMode: "random",
		TargetRows:   100,
		Seed:         seedOf(42),
	},
	PrivacySample: {
		SamplingMode: "random",
		TargetRows:   1000,
	},
}

// descriptions mirrors the original implementation's PROFILE_DESCRIPTIONS,
// surfaced here as a method rather than a bare module-level map so the
// `dnuds profiles` inspection subcommand can print it.
var descriptions = map[ProfileName]string{
	DebugSample: "Small samples preserving diversity and rare values. Uses random sampling. Good for debugging and manual inspection.",
	SchemaSample: "Minimal rows covering distinct shapes and categories. Uses stratified sampling to ensure representation across categories. Good for schema inference and test data generation.",
	SmokeTestSample: "Deterministic samples for automated testing. Uses a fixed random seed for reproducible outputs. Good for regression testing and CI/CD pipelines.",
	PrivacySample: "Samples with privacy masking applied. Requires privacy rules to be configured separately. Good for sharing data samples while protecting sensitive information.",
}

func seedOf(v int64) *int64 { return &v }

// GetProfile looks up a named profile.
func GetProfile(name ProfileName) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, util.NewError(util.KindInvalidConfig, "unknown profile: "+string(name))
	}
	return p, nil
}

// Describe returns the profile's one-line human description.
func (name ProfileName) Describe() string {
	return descriptions[name]
}

// AllProfiles lists every known profile name, for the `profiles`
// inspection subcommand.
func AllProfiles() []ProfileName {
	return []ProfileName{DebugSample, SchemaSample, SmokeTestSample, PrivacySample}
}
