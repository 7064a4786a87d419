package domain

// Identity — аутентифицированный пользователь, как его видит координатор.
// Не путать с сессией: один пользователь может открывать много соединений.
type Identity struct {
	UserID   int64
	Username string
	Avatar   string
}
