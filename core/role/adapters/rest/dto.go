package rest

type RoleDto struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
