package classifier

// Category identifies a symptom category matched by the rule-based classifier.
type Category string

const (
	CategoryRespiratory      Category = "respiratory"
	CategoryCardiovascular   Category = "cardiovascular"
	CategoryGastrointestinal Category = "gastrointestinal"
	CategoryNeurological     Category = "neurological"
	CategoryMusculoskeletal  Category = "musculoskeletal"
	CategoryDermatological   Category = "dermatological"
	CategoryEmergency        Category = "emergency"
	CategoryInfectious       Category = "infectious"
	CategoryPsychological    Category = "psychological"
	CategoryUrological       Category = "urological"
	CategoryGeneral          Category = "general"
)

type categoryDef struct {
	Keywords    []string
	Description string
}

// symptomCategories maps each category to its keyword dictionary. Matching is
// case-insensitive substring matching with a word-boundary bonus.
var symptomCategories = map[Category]categoryDef{
	CategoryRespiratory: {
		Keywords: []string{"cough", "shortness of breath", "wheezing", "chest pain", "breathing",
			"lungs", "asthma", "pneumonia", "bronchitis", "oxygen", "air", "respiratory"},
		Description: "Breathing and lung-related symptoms",
	},
	CategoryCardiovascular: {
		Keywords: []string{"heart", "chest pain", "palpitations", "blood pressure", "cardiac",
			"circulation", "pulse", "arrhythmia", "angina", "heart attack"},
		Description: "Heart and circulation-related symptoms",
	},
	CategoryGastrointestinal: {
		Keywords: []string{"stomach", "abdominal", "nausea", "vomiting", "diarrhea", "constipation",
			"gastro", "intestinal", "bowel", "digestive", "acid reflux", "indigestion"},
		Description: "Digestive system symptoms",
	},
	CategoryNeurological: {
		Keywords: []string{"headache", "migraine", "dizziness", "seizure", "memory", "confusion",
			"numbness", "tingling", "paralysis", "stroke", "brain", "neurological"},
		Description: "Brain and nervous system symptoms",
	},
	CategoryMusculoskeletal: {
		Keywords: []string{"muscle", "joint", "bone", "arthritis", "back pain", "neck pain",
			"shoulder", "knee", "hip", "fracture", "sprain", "strain", "mobility"},
		Description: "Muscles, bones, and joints symptoms",
	},
	CategoryDermatological: {
		Keywords: []string{"skin", "rash", "itching", "redness", "swelling", "bruising", "lesion",
			"acne", "eczema", "psoriasis", "dermatitis", "wound", "cut"},
		Description: "Skin-related symptoms",
	},
	CategoryEmergency: {
		Keywords: []string{"severe", "sudden", "acute", "emergency", "urgent", "critical", "blood",
			"bleeding", "unconscious", "difficulty breathing", "chest pain", "stroke"},
		Description: "Emergency or urgent symptoms",
	},
	CategoryInfectious: {
		Keywords: []string{"fever", "infection", "viral", "bacterial", "flu", "cold", "temperature",
			"chills", "swollen glands", "lymph nodes", "immune", "contagious"},
		Description: "Infection-related symptoms",
	},
	CategoryPsychological: {
		Keywords: []string{"anxiety", "depression", "stress", "panic", "mood", "mental", "emotional",
			"sleep", "insomnia", "fatigue", "exhaustion", "psychological"},
		Description: "Mental health and psychological symptoms",
	},
	CategoryUrological: {
		Keywords: []string{"urinary", "bladder", "kidney", "urine", "urination", "prostate",
			"incontinence", "uti", "urological", "renal"},
		Description: "Urinary system symptoms",
	},
}

// UrgencyLevel is the coarse urgency bucket derived from keyword indicators.
type UrgencyLevel string

const (
	UrgencyHigh   UrgencyLevel = "high"
	UrgencyMedium UrgencyLevel = "medium"
	UrgencyLow    UrgencyLevel = "low"
)

// urgencyKeywords drive the urgency indicator scan. High indicators dominate
// regardless of how many low/medium terms also appear.
var urgencyKeywords = map[UrgencyLevel][]string{
	UrgencyHigh:   {"severe", "acute", "sudden", "emergency", "critical", "unbearable", "excruciating"},
	UrgencyMedium: {"persistent", "worsening", "concerning", "moderate", "ongoing"},
	UrgencyLow:    {"mild", "slight", "minor", "occasional", "intermittent"},
}
