// Package models содержит структуры витрины Dr. Hope: зеркала серверных записей
// REST API, которые шлюз держит в памяти на время сессии.
package models

import "time"

// User текущий пользователь. Заменяется целиком при каждом входе
// и удаляется при выходе.
type User struct {
	ID                 int                 `json:"id"`
	FullName           string              `json:"full_name"`
	Email              string              `json:"email"`
	Phone              string              `json:"phone"`
	CountryCode        string              `json:"country_code,omitempty"`
	Subscriptions      []Subscription      `json:"subscriptions,omitempty"`
	Orders             []Order             `json:"orders,omitempty"`
	Notifications      []Notification      `json:"notifications,omitempty"`
	CreditTransactions []CreditTransaction `json:"credit_transactions,omitempty"`
}

// PersistedUser безопасная для хранения часть пользователя ("currentUser").
type PersistedUser struct {
	ID          int    `json:"id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CountryCode string `json:"country_code,omitempty"`
}

// Persisted возвращает несекретную проекцию пользователя.
func (u *User) Persisted() PersistedUser {
	return PersistedUser{
		ID:          u.ID,
		FullName:    u.FullName,
		Email:       u.Email,
		Phone:       u.Phone,
		CountryCode: u.CountryCode,
	}
}

// Restore строит пользователя из сохранённой проекции.
func (p PersistedUser) Restore() *User {
	return &User{
		ID:          p.ID,
		FullName:    p.FullName,
		Email:       p.Email,
		Phone:       p.Phone,
		CountryCode: p.CountryCode,
	}
}

// Notification уведомление пользователя.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Kind      string    `json:"kind,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// CreditTransaction движение по балансу пользователя.
type CreditTransaction struct {
	ID          int       `json:"id"`
	Amount      float64   `json:"amount"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ConsultationRequest запрос на консультацию/поддержку.
type ConsultationRequest struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Country страна из справочника с телефонным кодом.
type Country struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	PhoneCode string `json:"phone_code"`
}
