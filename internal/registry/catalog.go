package registry

// Well-known model names used across the platform.
const (
	ModelBiomedicalNER   = "biomedical_ner"
	ModelClinicalBERT    = "clinical_bert"
	ModelPubMedBERT      = "pubmed_bert"
	ModelZeroShot        = "disease_classifier"
	ModelTextGenerator   = "medical_text_generator"
	ModelSymptomSeverity = "symptom_severity"
	ModelMedicalQA       = "medical_qa"
	ModelDrugInteraction = "drug_interaction"
	ModelEmbedder        = "embedder"
	ModelSummarizer      = "medical_summarizer"
)

// DefaultCatalog returns the standard model catalog. Priority 1 is highest;
// only models with priority above the protected band may be evicted under
// memory pressure.
func DefaultCatalog() []ModelConfig {
	return []ModelConfig{
		{
			Name:          ModelBiomedicalNER,
			ModelID:       "d4data/biomedical-ner-all",
			Task:          "token-classification",
			Description:   "Extracts medical entities (diseases, symptoms, medications) from text",
			MemoryMB:      500,
			Priority:      1,
			Enabled:       true,
			LoadOnStartup: true,
		},
		{
			Name:          ModelClinicalBERT,
			ModelID:       "emilyalsentzer/Bio_ClinicalBERT",
			Task:          "fill-mask",
			Description:   "Clinical text understanding and medical context analysis",
			MemoryMB:      400,
			Priority:      2,
			Enabled:       true,
			LoadOnStartup: true,
		},
		{
			Name:          ModelPubMedBERT,
			ModelID:       "microsoft/BiomedNLP-PubMedBERT-base-uncased-abstract-fulltext",
			Task:          "fill-mask",
			Description:   "Biomedical literature comprehension and medical knowledge",
			MemoryMB:      400,
			Priority:      3,
			Enabled:       true,
			LoadOnStartup: true,
		},
		{
			Name:          ModelZeroShot,
			ModelID:       "facebook/bart-large-mnli",
			Task:          "zero-shot-classification",
			Description:   "Classifies symptoms into disease categories",
			MemoryMB:      600,
			Priority:      4,
			Enabled:       true,
			LoadOnStartup: true,
		},
		{
			Name:          ModelTextGenerator,
			ModelID:       "microsoft/DialoGPT-medium",
			Task:          "text-generation",
			Description:   "Generates medical explanations and advice",
			MemoryMB:      800,
			Priority:      5,
			Enabled:       true,
			LoadOnStartup: true,
		},
		{
			Name:          ModelSymptomSeverity,
			ModelID:       "cardiffnlp/twitter-roberta-base-sentiment-latest",
			Task:          "sentiment-analysis",
			Description:   "Analyzes symptom severity and urgency from text",
			MemoryMB:      300,
			Priority:      6,
			Enabled:       true,
			LoadOnStartup: true,
		},
		{
			Name:          ModelMedicalQA,
			ModelID:       "deepset/roberta-base-squad2",
			Task:          "question-answering",
			Description:   "Answers medical questions based on context",
			MemoryMB:      400,
			Priority:      7,
			Enabled:       true,
			LoadOnStartup: true,
		},
		{
			Name:          ModelDrugInteraction,
			ModelID:       "allenai/scibert_scivocab_uncased",
			Task:          "fill-mask",
			Description:   "Analyzes potential drug interactions and side effects",
			MemoryMB:      350,
			Priority:      8,
			Enabled:       true,
			LoadOnStartup: true,
		},
		{
			Name:          ModelEmbedder,
			ModelID:       "all-MiniLM-L6-v2",
			Task:          "embedding",
			Description:   "Creates semantic embeddings for medical text similarity",
			MemoryMB:      200,
			Priority:      9,
			Enabled:       true,
			LoadOnStartup: true,
		},
		{
			Name:          ModelSummarizer,
			ModelID:       "facebook/bart-large-cnn",
			Task:          "summarization",
			Description:   "Summarizes medical information and reports",
			MemoryMB:      600,
			Priority:      10,
			Enabled:       true,
			LoadOnStartup: true,
		},
	}
}
