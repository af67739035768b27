package domain

type Application struct {
	reader ImageReadStore
	writer ImageWriteStore
	cfg    Config
}

func NewApp(reader ImageReadStore, writer ImageWriteStore, cfg Config) *Application {
	return &Application{reader: reader, writer: writer, cfg: cfg}
}
