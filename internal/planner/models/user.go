package models

// ============================================================
// User Model
// ============================================================

// User - вызывающий пользователь. Аутентификацию выполняет прокси перед
// сервисом, сюда попадают поля из его заголовков.
type User struct {
	ID        string `json:"userId"`
	City      string `json:"city"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	IsAdmin   bool   `json:"isAdmin"`
}
