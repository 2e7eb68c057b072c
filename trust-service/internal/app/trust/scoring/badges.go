package scoring

import "worththehype/trust-service/internal/app/trust/entity"

// BadgeDefinition бейдж каталога с условием получения.
// Условие обязано быть монотонным: рост статистики не отнимает бейдж.
type BadgeDefinition struct {
	entity.Badge
	Check func(stats entity.AuthorStats) bool
}

func reviewsAtLeast(n int64) func(entity.AuthorStats) bool {
	return func(s entity.AuthorStats) bool { return s.ReviewCount >= n }
}

func upvotesAtLeast(n int64) func(entity.AuthorStats) bool {
	return func(s entity.AuthorStats) bool { return s.TotalUpvotesReceived >= n }
}

// Порядок каталога важен: внутри одного уровня первым считается бейдж,
// стоящий раньше.
var catalogue = []BadgeDefinition{
	{entity.Badge{ID: "first_bite", Label: "First Bite", Description: "Submitted your very first review.", Tier: entity.TierBronze}, reviewsAtLeast(1)},
	{entity.Badge{ID: "regular", Label: "Regular", Description: "Written 5 or more reviews.", Tier: entity.TierBronze}, reviewsAtLeast(5)},
	{entity.Badge{ID: "seasoned_critic", Label: "Seasoned Critic", Description: "Reached 10 reviews. The community trusts your palate.", Tier: entity.TierSilver}, reviewsAtLeast(10)},
	{entity.Badge{ID: "prolific", Label: "Prolific", Description: "25 reviews and counting.", Tier: entity.TierSilver}, reviewsAtLeast(25)},
	{entity.Badge{ID: "top_critic", Label: "Top Critic", Description: "50 reviews. You've seen it all.", Tier: entity.TierGold}, reviewsAtLeast(50)},
	{entity.Badge{ID: "legend", Label: "Legend", Description: "100 reviews. The community bows to your experience.", Tier: entity.TierLegendary}, reviewsAtLeast(100)},
	{entity.Badge{ID: "crowd_pleaser", Label: "Crowd Pleaser", Description: "Your reviews have earned 10 upvotes.", Tier: entity.TierBronze}, upvotesAtLeast(10)},
	{entity.Badge{ID: "trusted_voice", Label: "Trusted Voice", Description: "50 upvotes received. People listen to you.", Tier: entity.TierSilver}, upvotesAtLeast(50)},
	{entity.Badge{ID: "community_pillar", Label: "Community Pillar", Description: "200 upvotes received. You shape the conversation.", Tier: entity.TierGold}, upvotesAtLeast(200)},
	{entity.Badge{ID: "oracle", Label: "The Oracle", Description: "500 upvotes. Your word is gospel.", Tier: entity.TierLegendary}, upvotesAtLeast(500)},
}

var tierOrder = []entity.BadgeTier{
	entity.TierLegendary,
	entity.TierGold,
	entity.TierSilver,
	entity.TierBronze,
}

// Catalogue возвращает копию каталога бейджей
func Catalogue() []BadgeDefinition {
	out := make([]BadgeDefinition, len(catalogue))
	copy(out, catalogue)
	return out
}

// LookupBadge ищет бейдж по идентификатору
func LookupBadge(id entity.BadgeID) (entity.Badge, bool) {
	for _, def := range catalogue {
		if def.ID == id {
			return def.Badge, true
		}
	}
	return entity.Badge{}, false
}

// EarnedBadges все бейджи, условия которых выполнены, в порядке каталога
func EarnedBadges(stats entity.AuthorStats) []entity.BadgeID {
	earned := make([]entity.BadgeID, 0, len(catalogue))
	for _, def := range catalogue {
		if def.Check(stats) {
			earned = append(earned, def.ID)
		}
	}
	return earned
}

// NewlyUnlocked заработанные бейджи, которых нет в previous. previous не изменяется.
func NewlyUnlocked(stats entity.AuthorStats, previous []entity.BadgeID) []entity.BadgeID {
	held := make(map[entity.BadgeID]struct{}, len(previous))
	for _, id := range previous {
		held[id] = struct{}{}
	}

	var unlocked []entity.BadgeID
	for _, id := range EarnedBadges(stats) {
		if _, ok := held[id]; !ok {
			unlocked = append(unlocked, id)
		}
	}
	return unlocked
}

// PrimaryBadge самый престижный бейдж из earned.
// Неизвестные идентификаторы игнорируются.
func PrimaryBadge(earned []entity.BadgeID) (entity.Badge, bool) {
	set := make(map[entity.BadgeID]struct{}, len(earned))
	for _, id := range earned {
		set[id] = struct{}{}
	}

	for _, tier := range tierOrder {
		for _, def := range catalogue {
			if def.Tier != tier {
				continue
			}
			if _, ok := set[def.ID]; ok {
				return def.Badge, true
			}
		}
	}
	return entity.Badge{}, false
}

// ResolveBadges переводит идентификаторы в описания, неизвестные пропускаются
func ResolveBadges(ids []entity.BadgeID) []entity.Badge {
	badges := make([]entity.Badge, 0, len(ids))
	for _, id := range ids {
		if b, ok := LookupBadge(id); ok {
			badges = append(badges, b)
		}
	}
	return badges
}
