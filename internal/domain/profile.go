package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile — расширенная биография пользователя (1:1 с User).
// Education и WorkHistory принадлежат профилю и заменяются целиком при обновлении.
type Profile struct {
	ID          uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID     `json:"user_id" gorm:"type:uuid;uniqueIndex"`
	Bio         string        `json:"bio"`
	CurrentPost string        `json:"current_post"`
	Location    string        `json:"location"`
	Education   []Education   `json:"education" gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
	PastWork    []WorkHistory `json:"past_work" gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// Education — запись об образовании, Position задаёт порядок внутри профиля
type Education struct {
	ID           uuid.UUID `json:"-" gorm:"type:uuid;primaryKey"`
	ProfileID    uuid.UUID `json:"-" gorm:"type:uuid;index"`
	Position     int       `json:"-"`
	School       string    `json:"school"`
	Degree       string    `json:"degree"`
	FieldOfStudy string    `json:"field_of_study"`
}

func (Education) TableName() string {
	return "educations"
}

// WorkHistory — запись о прошлом месте работы
type WorkHistory struct {
	ID        uuid.UUID `json:"-" gorm:"type:uuid;primaryKey"`
	ProfileID uuid.UUID `json:"-" gorm:"type:uuid;index"`
	Position  int       `json:"-"`
	Company   string    `json:"company"`
	Role      string    `json:"position"`
	Years     string    `json:"years"`
}

func (WorkHistory) TableName() string {
	return "work_histories"
}

// ProfileUpdate — новое состояние профиля, списки заменяют существующие.
type ProfileUpdate struct {
	Bio         string
	CurrentPost string
	Location    string
	Education   []Education
	PastWork    []WorkHistory
}
