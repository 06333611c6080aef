package models

import "github.com/shopspring/decimal"

// Product товар бутика.
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Stock       int             `json:"stock"`
}

// Partner партнёр бренда.
type Partner struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
	URL  string `json:"url,omitempty"`
}

// MediaItem видео, фото галереи или эфир Instagram.
type MediaItem struct {
	ID        int    `json:"id"`
	Title     string `json:"title,omitempty"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// Content витринный контент, загружаемый одновременно.
type Content struct {
	Videos         []MediaItem `json:"videos"`
	Gallery        []MediaItem `json:"gallery"`
	InstagramLives []MediaItem `json:"instagram_lives"`
	Partners       []Partner   `json:"partners"`
	Products       []Product   `json:"products"`
	Reviews        []Review    `json:"reviews"`
	FailedSources  []string    `json:"failed_sources,omitempty"`
}

// Catalog справочники и каталог мастер-классов.
type Catalog struct {
	Countries        []Country  `json:"countries"`
	Settings         Settings   `json:"settings"`
	Workshops        []Workshop `json:"workshops"`
	EarliestWorkshop *Workshop  `json:"earliest_workshop,omitempty"`
}

// SupportRequest тело POST /api/drhope/support.
type SupportRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// ReviewRequest тело POST /api/profile/review.
type ReviewRequest struct {
	WorkshopID int    `json:"workshop_id" validate:"required,gt=0"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" validate:"required"`
}
