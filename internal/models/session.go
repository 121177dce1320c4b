package models

// Session — активная сессия пользователя шлюза. Передается явно во все
// операции, обращающиеся к основному API: так обмены и проверки статуса
// детерминированно тестируются с подставной сессией.
type Session struct {
	UserID string
	Token  string
}

// Anonymous сообщает, что сессии нет. Это не ошибка: запрос уходит
// без авторизации, и отклонить его — задача бэкенда.
func (s Session) Anonymous() bool {
	return s.Token == ""
}
