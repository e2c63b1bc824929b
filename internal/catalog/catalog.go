package catalog

import "fmt"

// Sample is one purchasable audio asset. The catalog is compiled in: pricing
// and storage paths are release artifacts, and checkout snapshots the price
// onto the order so later edits never re-price past purchases.
type Sample struct {
	ID       int    `json:"id"`
	Filename string `json:"filename"`
	PackName string `json:"packName"`
	PackID   int    `json:"packId"`
	Category string `json:"category"`
	BPM      int    `json:"bpm"`
	Key      string `json:"key"`
	// DurationSeconds of the full-quality asset.
	DurationSeconds int  `json:"duration"`
	New             bool `json:"isNew,omitempty"`
	// PreviewObjectPath is the low-bitrate demo in the public preview
	// bucket.
	PreviewObjectPath string `json:"-"`
	// FullObjectPath is the private full-quality object key; download
	// access goes through signed URLs only.
	FullObjectPath string `json:"-"`
	PriceCents     int    `json:"priceUsdCents"`
}

// PreviewURL returns the public demo URL for a sample in the given bucket.
func (s Sample) PreviewURL(previewBucket string) string {
	if previewBucket == "" || s.PreviewObjectPath == "" {
		return ""
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", previewBucket, s.PreviewObjectPath)
}

func previewPath(n int) string {
	return fmt.Sprintf("previews/sample%d.mp3", n)
}

func fullPath(n int) string {
	return fmt.Sprintf("full/sample%d.wav", n)
}

const standardPriceCents = 299

var samples = []Sample{
	{ID: 1, Filename: "rss_90_vinyl_cut_free_Emin.wav", PackName: "Reworked Soul Selections", PackID: 1, Category: "Hip Hop", BPM: 90, Key: "E min", DurationSeconds: 28, New: true, PreviewObjectPath: previewPath(1), FullObjectPath: fullPath(1), PriceCents: standardPriceCents},
	{ID: 2, Filename: "SLS_SS2_70_songstarter_resampled_soul_true_alt_2_C#min.wav", PackName: "The Soul Standard Volume 2", PackID: 2, Category: "Hip Hop", BPM: 70, Key: "C# min", DurationSeconds: 35, New: true, PreviewObjectPath: previewPath(2), FullObjectPath: fullPath(2), PriceCents: standardPriceCents},
	{ID: 3, Filename: "DBM_NYM2_87_acoustic_piano_loop_queens_bridge_C#min.wav", PackName: "New York Minute 2", PackID: 3, Category: "Hip Hop", BPM: 87, Key: "C# min", DurationSeconds: 22, PreviewObjectPath: previewPath(3), FullObjectPath: fullPath(3), PriceCents: standardPriceCents},
	{ID: 4, Filename: "trap_808_sub_bass_heavy_Fmin.wav", PackName: "Trap Kingdom", PackID: 6, Category: "Trap", BPM: 140, Key: "F min", DurationSeconds: 18, New: true, PreviewObjectPath: previewPath(4), FullObjectPath: fullPath(4), PriceCents: standardPriceCents},
	{ID: 5, Filename: "trap_hihat_roll_32nd_150bpm.wav", PackName: "Trap Kingdom", PackID: 6, Category: "Trap", BPM: 150, Key: "—", DurationSeconds: 8, PreviewObjectPath: previewPath(5), FullObjectPath: fullPath(5), PriceCents: standardPriceCents},
	{ID: 6, Filename: "metro_boomin_style_melody_Gmin.wav", PackName: "Trap Kingdom", PackID: 6, Category: "Trap", BPM: 138, Key: "G min", DurationSeconds: 24, PreviewObjectPath: previewPath(6), FullObjectPath: fullPath(6), PriceCents: standardPriceCents},
	{ID: 7, Filename: "lofi_vinyl_crackle_texture_loop.wav", PackName: "Midnight Sessions", PackID: 1, Category: "Lo-Fi Hip Hop", BPM: 85, Key: "—", DurationSeconds: 45, PreviewObjectPath: previewPath(7), FullObjectPath: fullPath(7), PriceCents: standardPriceCents},
	{ID: 8, Filename: "jazzy_rhodes_chord_progression_Dmin.wav", PackName: "Midnight Sessions", PackID: 1, Category: "Lo-Fi Hip Hop", BPM: 78, Key: "D min", DurationSeconds: 32, PreviewObjectPath: previewPath(8), FullObjectPath: fullPath(8), PriceCents: standardPriceCents},
	{ID: 9, Filename: "house_kick_punchy_sidechain_ready.wav", PackName: "Club Genesis", PackID: 5, Category: "House", BPM: 125, Key: "—", DurationSeconds: 4, PreviewObjectPath: previewPath(9), FullObjectPath: fullPath(9), PriceCents: standardPriceCents},
	{ID: 10, Filename: "house_bassline_groovy_Amin_125.wav", PackName: "Club Genesis", PackID: 5, Category: "House", BPM: 125, Key: "A min", DurationSeconds: 16, New: true, PreviewObjectPath: previewPath(10), FullObjectPath: fullPath(10), PriceCents: standardPriceCents},
	{ID: 11, Filename: "future_bass_drop_lead_supersaws_Cmaj.wav", PackName: "Future Bass Pack", PackID: 8, Category: "EDM", BPM: 150, Key: "C maj", DurationSeconds: 20, PreviewObjectPath: previewPath(11), FullObjectPath: fullPath(11), PriceCents: standardPriceCents},
	{ID: 12, Filename: "edm_buildup_riser_8bar_tension.wav", PackName: "Future Bass Pack", PackID: 8, Category: "EDM", BPM: 128, Key: "—", DurationSeconds: 30, PreviewObjectPath: previewPath(12), FullObjectPath: fullPath(12), PriceCents: standardPriceCents},
	{ID: 13, Filename: "ambient_pad_ethereal_dreamscape_Fmaj.wav", PackName: "Deep Space", PackID: 4, Category: "Ambient", BPM: 0, Key: "F maj", DurationSeconds: 60, PreviewObjectPath: previewPath(13), FullObjectPath: fullPath(13), PriceCents: standardPriceCents},
	{ID: 14, Filename: "synthwave_arp_neon_nights_Emin.wav", PackName: "Neon Streets", PackID: 2, Category: "Synthwave", BPM: 115, Key: "E min", DurationSeconds: 25, New: true, PreviewObjectPath: previewPath(14), FullObjectPath: fullPath(14), PriceCents: standardPriceCents},
	{ID: 15, Filename: "snare_808_crispy_layered_processed.wav", PackName: "Boom Bap Essentials", PackID: 7, Category: "Drums", BPM: 0, Key: "—", DurationSeconds: 2, PreviewObjectPath: previewPath(15), FullObjectPath: fullPath(15), PriceCents: standardPriceCents},
	{ID: 16, Filename: "vocal_chop_oh_yeah_processed_Cmaj.wav", PackName: "Vocal Toolkit", PackID: 9, Category: "Vocals", BPM: 120, Key: "C maj", DurationSeconds: 12, PreviewObjectPath: previewPath(16), FullObjectPath: fullPath(16), PriceCents: standardPriceCents},
	{ID: 17, Filename: "synth_lead_aggressive_saw_Amin.wav", PackName: "Synth Arsenal", PackID: 10, Category: "Synths", BPM: 128, Key: "A min", DurationSeconds: 18, PreviewObjectPath: previewPath(17), FullObjectPath: fullPath(17), PriceCents: standardPriceCents},
	{ID: 18, Filename: "fx_riser_cinematic_buildup_16bar.wav", PackName: "FX Toolkit Pro", PackID: 11, Category: "FX", BPM: 0, Key: "—", DurationSeconds: 16, New: true, PreviewObjectPath: previewPath(18), FullObjectPath: fullPath(18), PriceCents: standardPriceCents},
}

// Categories offered in the storefront filter, display order.
var Categories = []string{
	"All",
	"Hip Hop",
	"Trap",
	"Pop",
	"R&B",
	"House",
	"EDM",
	"Drums",
	"Vocals",
	"Synths",
	"FX",
	"Lo-Fi Hip Hop",
	"Ambient",
	"Synthwave",
}

var samplesByID = func() map[int]Sample {
	m := make(map[int]Sample, len(samples))
	for _, s := range samples {
		m[s.ID] = s
	}
	return m
}()

// All returns a copy of the catalog.
func All() []Sample {
	out := make([]Sample, len(samples))
	copy(out, samples)
	return out
}

// ByID looks up a sample by its catalog id.
func ByID(id int) (Sample, bool) {
	s, ok := samplesByID[id]
	return s, ok
}

// ByCategory filters the catalog; "All" or "" returns everything.
func ByCategory(category string) []Sample {
	if category == "" || category == "All" {
		return All()
	}
	var out []Sample
	for _, s := range samples {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}
