package models

// Имена колонок, которые принимает UserRepository.Update
const (
	FieldVerified          = "verify"
	FieldVerificationToken = "verification_token"
	FieldToken             = "token"
	FieldSubscription      = "subscription"
	FieldAvatarURL         = "avatar_url"
)

// User - аккаунт пользователя
type User struct {
	BaseModel
	Email             string           `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash      string           `gorm:"column:password;not null" json:"-"`
	Verified          bool             `gorm:"column:verify;not null;default:false" json:"verify"`
	VerificationToken *string          `gorm:"column:verification_token;type:varchar(64);index" json:"-"`
	Token             *string          `gorm:"column:token;type:text" json:"-"`
	Subscription      SubscriptionTier `gorm:"type:varchar(20);not null;default:'starter'" json:"subscription"`
	AvatarURL         string           `gorm:"column:avatar_url;not null" json:"avatarURL"`
}

func (User) TableName() string {
	return "users"
}

// HasSession сообщает, есть ли у аккаунта активная сессия
func (u *User) HasSession() bool {
	return u.Token != nil && *u.Token != ""
}
