package models

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type Preferences struct {
	Theme             Theme `json:"theme"`
	AccessibilityMode bool  `json:"accessibilityMode"`
}
