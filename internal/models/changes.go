package models

// ChangeInfo - information about a product whose price changed at a store.
type ChangeInfo struct {
	Old StorePrice
	New StorePrice
}

// Changes - comparison result between two scans of a store page.
type Changes struct {
	Added   []StorePrice
	Removed []StorePrice
	Changed []ChangeInfo
}

// Drops returns the changed products whose effective price went down.
func (c Changes) Drops() []ChangeInfo {
	var drops []ChangeInfo
	for _, ch := range c.Changed {
		if ch.New.EffectivePrice().LessThan(ch.Old.EffectivePrice()) {
			drops = append(drops, ch)
		}
	}
	return drops
}

// IsEmpty reports whether the scan found nothing new.
func (c Changes) IsEmpty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}

// State - the page hash of a store together with its latest known prices.
type State struct {
	PageHash string
	Prices   []StorePrice
}
