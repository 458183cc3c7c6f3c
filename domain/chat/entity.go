package chat

import "time"

// User is the persisted user record. The password hash stays inside the
// auth module; everything leaving the process goes through Profile.
type User struct {
	ID           string `gorm:"primaryKey;type:text"`
	Email        string `gorm:"uniqueIndex;not null;type:text"`
	FullName     string `gorm:"not null;type:text"`
	PasswordHash string `gorm:"not null;type:text"`
	ProfilePic   string `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// Profile is the public projection of a User.
type Profile struct {
	ID         string    `json:"id"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	ProfilePic string    `json:"profilePic"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Public returns the user's public profile.
func (u *User) Public() Profile {
	return Profile{
		ID:         u.ID,
		FullName:   u.FullName,
		Email:      u.Email,
		ProfilePic: u.ProfilePic,
		CreatedAt:  u.CreatedAt,
	}
}

// Message is a single chat message between two users. Messages are
// immutable after creation and ordered by CreatedAt within a conversation.
// At least one of Text and Image is non-empty.
type Message struct {
	ID         string    `gorm:"primaryKey;type:text" json:"id"`
	SenderID   string    `gorm:"index;not null;type:text" json:"senderId"`
	ReceiverID string    `gorm:"index;not null;type:text" json:"receiverId"`
	Text       string    `gorm:"type:text" json:"text"`
	Image      string    `gorm:"type:text" json:"image,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TableName returns the table name for the Message entity.
func (Message) TableName() string {
	return "messages"
}
