package model

import "time"

// InstanceUser участник календаря: имя для отображения и клавиша-шорткат
type InstanceUser struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

// InstanceConfig конфигурация одного экземпляра календаря
type InstanceConfig struct {
	Slug      string         `json:"slug"`
	Title     string         `json:"title"`
	Users     []InstanceUser `json:"users"`
	CreatedAt time.Time      `json:"createdAt"`
}

// DefaultInstanceConfig дефолтная конфигурация для свежего инстанса,
// чтобы календарь работал из коробки без записи в хранилище
func DefaultInstanceConfig(slug string) *InstanceConfig {
	return &InstanceConfig{
		Slug:  slug,
		Title: "CPS Software Booking",
		Users: []InstanceUser{
			{Name: "Jack", Key: "j"},
			{Name: "Bonnie", Key: "b"},
			{Name: "Giuliano", Key: "g"},
			{Name: "John", Key: "h"},
			{Name: "Rue", Key: "r"},
			{Name: "Joel", Key: "l"},
		},
		CreatedAt: time.Now().UTC(),
	}
}
