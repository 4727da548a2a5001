package intel

import "regexp"

// Local heuristic buckets. Each bucket contributes a fixed risk factor when
// any of its patterns match; hits on known-bad domains score separately.
const (
	BucketGetRich     = "get_rich_scheme"
	BucketCredential  = "credential_harvesting"
	BucketUrgency     = "urgency_manipulation"
	BucketSocial      = "social_engineering"
	BucketKnownThreat = "known_threat"
)

var bucketWeights = map[string]float64{
	BucketGetRich:     0.3,
	BucketCredential:  0.4,
	BucketUrgency:     0.2,
	BucketSocial:      0.25,
	BucketKnownThreat: 0.5,
}

type localPattern struct {
	name   string
	bucket string
	re     *regexp.Regexp
}

var localPatterns = []localPattern{
	{"guaranteed_returns", BucketGetRich, regexp.MustCompile(`(?i)guaranteed\s+(returns?|profits?|income)`)},
	{"double_your_money", BucketGetRich, regexp.MustCompile(`(?i)double\s+your\s+(money|investment|bitcoin)`)},
	{"passive_income_fast", BucketGetRich, regexp.MustCompile(`(?i)(earn|make)\s+\$?\d+[k,\d]*\s+(per|a|each)\s+(day|week|hour)`)},
	{"risk_free_investment", BucketGetRich, regexp.MustCompile(`(?i)risk[- ]free\s+(investment|opportunity|trading)`)},

	{"verify_account_link", BucketCredential, regexp.MustCompile(`(?i)verify\s+your\s+(account|identity|details)`)},
	{"login_credentials_request", BucketCredential, regexp.MustCompile(`(?i)(enter|confirm|update)\s+your\s+(password|login|credentials)`)},
	{"account_suspended", BucketCredential, regexp.MustCompile(`(?i)account\s+(has\s+been\s+)?(suspended|locked|compromised|deactivated)`)},
	{"security_alert_lure", BucketCredential, regexp.MustCompile(`(?i)(unusual|suspicious)\s+(activity|sign[- ]?in|login)\s+(detected|on\s+your)`)},

	{"act_now", BucketUrgency, regexp.MustCompile(`(?i)act\s+(now|immediately|fast|today)`)},
	{"limited_time", BucketUrgency, regexp.MustCompile(`(?i)(limited\s+time|expires\s+(soon|today|in\s+\d+)|last\s+chance)`)},
	{"final_warning", BucketUrgency, regexp.MustCompile(`(?i)(final|last)\s+(warning|notice|reminder)`)},

	{"trust_appeal", BucketSocial, regexp.MustCompile(`(?i)(trust\s+me|between\s+you\s+and\s+me|keep\s+this\s+(secret|confidential|private))`)},
	{"authority_claim", BucketSocial, regexp.MustCompile(`(?i)(on\s+behalf\s+of|i\s+am\s+(from|with)\s+(the\s+)?(bank|irs|police|support|microsoft|government))`)},
	{"sympathy_hook", BucketSocial, regexp.MustCompile(`(?i)(stranded|emergency\s+surgery|hospital\s+bills?|help\s+me\s+urgently)`)},
}
