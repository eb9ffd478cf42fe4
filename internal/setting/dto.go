package setting

import "strings"

type UpsertSettingDTO struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

func (d *UpsertSettingDTO) Validate() error {
	d.Key = strings.TrimSpace(d.Key)
	if d.Key == "" {
		return ErrEmptyKey
	}
	return nil
}
