package types

type typeRequest struct {
	Name        string `json:"name" form:"name"`
	Color       string `json:"color" form:"color"`
	Description string `json:"description" form:"description"`
}
