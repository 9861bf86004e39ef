// Package catalog defines the tracked skin universe. The list is fixed,
// ordered configuration: the tracker creates catalog rows from it and the
// ranker and simulator only ever consider names that appear here.
package catalog

// Entry describes one tracked skin.
type Entry struct {
	Name     string `json:"name"`
	Rarity   string `json:"rarity"`
	Category string `json:"category"`
	Thesis   string `json:"thesis"`
}

// Universe is the curated basket, favoring liquid, recognizable skins with
// cross-weapon coverage and investable volatility.
var Universe = []Entry{
	{Name: "AK-47 | Redline (Field-Tested)", Rarity: "Classified", Category: "Rifle",
		Thesis: "Perennial fan favorite with deep liquidity; tracks overall market beta closely."},
	{Name: "AK-47 | Slate (Factory New)", Rarity: "Restricted", Category: "Rifle",
		Thesis: "Budget AK staple; volume stays high through market cycles."},
	{Name: "M4A4 | Asiimov (Field-Tested)", Rarity: "Covert", Category: "Rifle",
		Thesis: "Iconic Covert with steady demand from mid-tier inventories."},
	{Name: "M4A1-S | Printstream (Minimal Wear)", Rarity: "Covert", Category: "Rifle",
		Thesis: "Premium white-tier design; supply constrained since case retirement."},
	{Name: "AWP | Asiimov (Field-Tested)", Rarity: "Covert", Category: "Sniper",
		Thesis: "Benchmark AWP skin; price action leads the sniper segment."},
	{Name: "AWP | Chromatic Aberration (Factory New)", Rarity: "Classified", Category: "Sniper",
		Thesis: "Recent-case Classified with room to appreciate as drop rates fall."},
	{Name: "Desert Eagle | Printstream (Field-Tested)", Rarity: "Covert", Category: "Pistol",
		Thesis: "Most traded premium pistol; reacts quickly to demand shocks."},
	{Name: "USP-S | Ticket to Hell (Field-Tested)", Rarity: "Restricted", Category: "Pistol",
		Thesis: "Cheap entry point with outsized volume for its tier."},
	{Name: "Glock-18 | Fade (Factory New)", Rarity: "Restricted", Category: "Pistol",
		Thesis: "Supply-capped classic; behaves like a store of value."},
	{Name: "M9 Bayonet | Doppler (Factory New)", Rarity: "Covert", Category: "Knife",
		Thesis: "Blue-chip knife; low volume but strong long-run drift."},
	{Name: "Karambit | Case Hardened (Field-Tested)", Rarity: "Covert", Category: "Knife",
		Thesis: "Pattern-driven demand keeps a firm floor under generic examples."},
	{Name: "Butterfly Knife | Forest DDPAT (Field-Tested)", Rarity: "Covert", Category: "Knife",
		Thesis: "Cheapest butterfly; liquidity proxy for the knife segment."},
	{Name: "AK-47 | Vulcan (Minimal Wear)", Rarity: "Covert", Category: "Rifle",
		Thesis: "Discontinued-case Covert with consistent collector demand."},
	{Name: "M4A1-S | Hyper Beast (Field-Tested)", Rarity: "Covert", Category: "Rifle",
		Thesis: "High-volume Covert that mean-reverts reliably after spikes."},
	{Name: "AWP | Neo-Noir (Field-Tested)", Rarity: "Covert", Category: "Sniper",
		Thesis: "Mid-priced AWP with stable velocity; good momentum carrier."},
	{Name: "P250 | See Ya Later (Factory New)", Rarity: "Classified", Category: "Pistol",
		Thesis: "Cheap Classified; high unit volume smooths the liquidity factor."},
	{Name: "Five-SeveN | Hyper Beast (Minimal Wear)", Rarity: "Classified", Category: "Pistol",
		Thesis: "Low ticket size attracts retail flow on market upswings."},
	{Name: "Galil AR | Chatterbox (Field-Tested)", Rarity: "Classified", Category: "Rifle",
		Thesis: "Old-case Classified with slowly shrinking float supply."},
	{Name: "P90 | Asiimov (Field-Tested)", Rarity: "Covert", Category: "SMG",
		Thesis: "SMG-segment bellwether riding the Asiimov brand."},
	{Name: "MAC-10 | Neon Rider (Factory New)", Rarity: "Classified", Category: "SMG",
		Thesis: "Bright budget pick with dependable daily turnover."},
}

// ByName indexes the universe by skin name.
var ByName = func() map[string]Entry {
	m := make(map[string]Entry, len(Universe))
	for _, e := range Universe {
		m[e.Name] = e
	}
	return m
}()

// Names returns the ordered list of tracked skin names.
func Names() []string {
	out := make([]string, len(Universe))
	for i, e := range Universe {
		out[i] = e.Name
	}
	return out
}
