package dto

type Category struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug,omitempty"`
	Parent int64  `json:"parent"`
}

type CategoryCreate struct {
	Name   string `json:"name"`
	Parent int64  `json:"parent,omitempty"`
}
