package domain

type Application struct {
	reader RoleReadStore
}

func NewApp(reader RoleReadStore) *Application {
	return &Application{reader: reader}
}
