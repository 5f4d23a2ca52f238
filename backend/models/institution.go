package models

type Institution struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type InstitutionAccess struct {
	HasAccess   bool   `json:"hasAccess"`
	Institution string `json:"institution,omitempty"`
}
