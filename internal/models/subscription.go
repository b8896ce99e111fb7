package models

// SubscriptionTier - уровень подписки аккаунта
type SubscriptionTier string

const (
	SubscriptionStarter  SubscriptionTier = "starter"
	SubscriptionPro      SubscriptionTier = "pro"
	SubscriptionBusiness SubscriptionTier = "business"

	// DefaultSubscription назначается при регистрации
	DefaultSubscription = SubscriptionStarter
)

// SubscriptionTiers - фиксированный набор допустимых значений
var SubscriptionTiers = []SubscriptionTier{
	SubscriptionStarter,
	SubscriptionPro,
	SubscriptionBusiness,
}

// IsValid проверяет, входит ли значение в фиксированный набор
func (t SubscriptionTier) IsValid() bool {
	for _, tier := range SubscriptionTiers {
		if t == tier {
			return true
		}
	}
	return false
}
