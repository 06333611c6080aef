package models

// Типы проведения мастер-класса.
const (
	WorkshopOnline       = "online"
	WorkshopOnsite       = "onsite"
	WorkshopOnlineOnsite = "online_onsite"
	WorkshopRecorded     = "recorded"
)

// Workshop запись каталога мастер-классов.
type Workshop struct {
	ID             int         `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description,omitempty"`
	Instructor     string      `json:"instructor,omitempty"`
	Type           string      `json:"type"`
	StartDate      string      `json:"start_date,omitempty"`
	EndDate        string      `json:"end_date,omitempty"`
	StartTime      string      `json:"start_time,omitempty"`
	EndTime        string      `json:"end_time,omitempty"`
	Location       string      `json:"location,omitempty"`
	Price          float64     `json:"price"`
	IsVisible      bool        `json:"is_visible"`
	Packages       []Package   `json:"packages,omitempty"`
	Recordings     []Recording `json:"recordings,omitempty"`
	Notes          []Note      `json:"notes,omitempty"`
	Files          []MediaFile `json:"files,omitempty"`
	Reviews        []Review    `json:"reviews,omitempty"`
	AvailableSeats *int        `json:"available_seats,omitempty"`
}

// Package тариф мастер-класса со своей ценой и набором возможностей.
type Package struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Price    float64  `json:"price"`
	Features []string `json:"features,omitempty"`
}

// Recording запись эфира.
type Recording struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Note заметка к мастер-классу.
type Note struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// MediaFile файл материалов (аудио, видео, pdf).
type MediaFile struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}

// Review отзыв о мастер-классе.
type Review struct {
	ID         int    `json:"id"`
	WorkshopID int    `json:"workshop_id,omitempty"`
	UserName   string `json:"user_name,omitempty"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// Settings настройки главной страницы.
type Settings map[string]any
