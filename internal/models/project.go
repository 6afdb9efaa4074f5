package models

// Platform identifies a mod-hosting site that reports download counts.
type Platform string

const (
	PlatformModrinth   Platform = "modrinth"
	PlatformCurseForge Platform = "curseforge"
)

// Platforms lists every supported platform in fetch order.
var Platforms = []Platform{PlatformModrinth, PlatformCurseForge}

// Project represents a tracked mod whose downloads are reported in the document.
type Project struct {
	Name        string `mapstructure:"name" yaml:"name"`
	Placeholder string `mapstructure:"placeholder" yaml:"placeholder"`
	Modrinth    string `mapstructure:"modrinth" yaml:"modrinth"`     // project slug
	CurseForge  string `mapstructure:"curseforge" yaml:"curseforge"` // numeric mod id or slug
}

// ID returns the project's identifier on the given platform, or "" if untracked there.
func (p Project) ID(platform Platform) string {
	switch platform {
	case PlatformModrinth:
		return p.Modrinth
	case PlatformCurseForge:
		return p.CurseForge
	default:
		return ""
	}
}
