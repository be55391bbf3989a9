package services

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/zatekoja/ehr-document-pipeline/internal/domain/codes"
	"github.com/zatekoja/ehr-document-pipeline/internal/domain/entities"
)

// archetype describes one clinical presentation used to generate
// plausible synthetic patients for a diabetes/hypertension clinic.
type archetype struct {
	ageMin, ageMax int
	sex            string
	diagnoses      []archetypeDiagnosis
	medications    []string
	a1cMin, a1cMax float64
	conditionFocus []string
}

type archetypeDiagnosis struct {
	code  string
	text  string
	since string
}

var patientArchetypes = []archetype{
	{
		ageMin: 45, ageMax: 65, sex: "female",
		diagnoses: []archetypeDiagnosis{
			{"E11.9", "Type 2 Diabetes without complications", "2017"},
			{"I10", "Essential Hypertension", "2019"},
		},
		medications: []string{"metformin", "lisinopril"},
		a1cMin:      7.8, a1cMax: 9.2,
		conditionFocus: []string{"type 2 diabetes", "hypertension"},
	},
	{
		ageMin: 50, ageMax: 70, sex: "male",
		diagnoses: []archetypeDiagnosis{
			{"E11.9", "Type 2 Diabetes without complications", "2015"},
			{"I10", "Essential Hypertension", "2018"},
			{"E78.5", "Hyperlipidemia", "2020"},
		},
		medications: []string{"metformin", "amlodipine", "atorvastatin"},
		a1cMin:      8.0, a1cMax: 10.1,
		conditionFocus: []string{"type 2 diabetes", "cardiovascular disease"},
	},
	{
		ageMin: 40, ageMax: 60, sex: "female",
		diagnoses: []archetypeDiagnosis{
			{"E11.9", "Type 2 Diabetes without complications", "2020"},
		},
		medications: []string{"metformin", "glipizide"},
		a1cMin:      7.2, a1cMax: 8.5,
		conditionFocus: []string{"type 2 diabetes"},
	},
	{
		ageMin: 55, ageMax: 75, sex: "male",
		diagnoses: []archetypeDiagnosis{
			{"E11.9", "Type 2 Diabetes without complications", "2014"},
			{"I10", "Essential Hypertension", "2016"},
			{"N18.3", "Chronic kidney disease stage 3", "2021"},
		},
		medications: []string{"metformin", "losartan", "furosemide"},
		a1cMin:      8.5, a1cMax: 10.8,
		conditionFocus: []string{"type 2 diabetes", "chronic kidney disease"},
	},
	{
		ageMin: 35, ageMax: 55, sex: "female",
		diagnoses: []archetypeDiagnosis{
			{"E11.9", "Type 2 Diabetes without complications", "2019"},
			{"E66.9", "Obesity, unspecified", "2018"},
		},
		medications: []string{"metformin", "semaglutide"},
		a1cMin:      6.8, a1cMax: 8.0,
		conditionFocus: []string{"type 2 diabetes", "obesity", "weight management"},
	},
}

var resourceTypes = []string{
	"LabReport",
	"ClinicalNote",
	"DischargeSummary",
	"MedicationList",
	"VitalSigns",
	"RadiologyReport",
	"ReferralNote",
}

// Mid-tier American cities that make sense for a diabetes/hypertension
// clinic.
var midTierCities = []string{
	"Springfield, IL", "Madison, WI", "Fort Wayne, IN", "Grand Rapids, MI",
	"Chattanooga, TN", "Spokane, WA", "Boise, ID", "Reno, NV",
	"Lansing, MI", "Peoria, IL", "Cedar Rapids, IA", "Green Bay, WI",
	"Evansville, IN", "Dayton, OH", "Rockford, IL", "Springfield, MO",
	"Fargo, ND", "Sioux Falls, SD", "Burlington, VT", "Manchester, NH",
}

var firstNames = []string{
	"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael",
	"Linda", "David", "Elizabeth", "William", "Barbara", "Richard", "Susan",
	"Joseph", "Jessica", "Thomas", "Sarah", "Charles", "Karen",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
	"Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez",
	"Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
}

var aiSummaries = map[string][]string{
	"LabReport": {
		"Poor glycemic control indicated by elevated A1C; lipid management needed.",
		"Diabetes well-controlled; renal function stable for continued metformin use.",
		"Suboptimal glucose control; consider medication intensification.",
	},
	"ClinicalNote": {
		"Diabetes and hypertension with elevated BP; lifestyle counseling reinforced.",
		"Stable chronic conditions; medication adherence good; routine follow-up planned.",
		"Multiple comorbidities requiring ongoing management and monitoring.",
	},
	"DischargeSummary": {
		"Hypoglycemia episode resolved; patient education provided on prevention.",
		"Brief hospitalization for diabetes-related complication; stable at discharge.",
		"Routine discharge after successful management of acute episode.",
	},
	"MedicationList": {
		"Standard diabetes and hypertension regimen; adherence generally acceptable.",
		"Current medications appropriate for comorbidities; no immediate changes needed.",
		"Multi-drug regimen for diabetes management; monitoring for drug interactions.",
	},
}

// Dataset is a complete generated fixture set.
type Dataset struct {
	Patients     []*entities.Patient
	Resources    []*entities.EHRResource
	DerivedFacts []*entities.DerivedFacts
}

// GeneratorService produces synthetic patients, document-bearing EHR
// resources, and curated clinical facts for exercising the pipeline.
// The generated document text intentionally contains terms the
// extractor recognizes.
type GeneratorService struct {
	rng *rand.Rand
}

// NewGeneratorService creates a generator seeded from the current time.
func NewGeneratorService() *GeneratorService {
	return NewGeneratorServiceWithSeed(time.Now().UnixNano())
}

// NewGeneratorServiceWithSeed creates a deterministic generator for
// reproducible fixtures.
func NewGeneratorServiceWithSeed(seed int64) *GeneratorService {
	return &GeneratorService{rng: rand.New(rand.NewSource(seed))}
}

// GenerateDataset produces patients with their resources and derived
// facts. Each patient gets between minResources and maxResources
// documents.
func (g *GeneratorService) GenerateDataset(numPatients, minResources, maxResources int) *Dataset {
	dataset := &Dataset{}
	for i := 0; i < numPatients; i++ {
		arch := patientArchetypes[g.rng.Intn(len(patientArchetypes))]
		patient := g.generatePatient(i+1, arch)
		dataset.Patients = append(dataset.Patients, patient)
		dataset.Resources = append(dataset.Resources, g.generateResources(patient.ID, arch, minResources, maxResources)...)
		dataset.DerivedFacts = append(dataset.DerivedFacts, g.generateDerivedFacts(patient.ID, arch))
	}
	return dataset
}

func (g *GeneratorService) generatePatient(seq int, arch archetype) *entities.Patient {
	name := firstNames[g.rng.Intn(len(firstNames))] + " " + lastNames[g.rng.Intn(len(lastNames))]
	email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com"

	return &entities.Patient{
		ID:           fmt.Sprintf("P%03d", seq),
		Name:         name,
		Email:        email,
		ConsentGiven: true,
		Preferences: &entities.MatchPreferences{
			PreferredLocation:    midTierCities[g.rng.Intn(len(midTierCities))],
			WillingToTravel:      g.rng.Intn(2) == 0,
			ConditionFocus:       arch.conditionFocus,
			TrialPhasePreference: g.sample([]string{"Phase I", "Phase II", "Phase III"}, 1+g.rng.Intn(2)),
			TrialType:            g.sample([]string{"drug", "observational", "behavioral"}, 1+g.rng.Intn(2)),
		},
		CreatedAt: g.pastTime(365 * 24 * time.Hour),
	}
}

func (g *GeneratorService) generateResources(patientID string, arch archetype, minResources, maxResources int) []*entities.EHRResource {
	var resources []*entities.EHRResource
	count := minResources + g.rng.Intn(maxResources-minResources+1)

	for i := 0; i < count; i++ {
		resourceType := resourceTypes[g.rng.Intn(len(resourceTypes))]
		createdTime := g.pastTime(365 * 24 * time.Hour)
		fetchTime := createdTime.Add(time.Duration(1000+g.rng.Intn(9000)) * time.Millisecond)

		var content string
		switch resourceType {
		case "LabReport":
			content = g.labReport(arch)
		case "ClinicalNote":
			content = g.clinicalNote(arch)
		case "DischargeSummary":
			content = g.dischargeSummary(arch)
		case "MedicationList":
			content = g.medicationList(arch)
		default:
			content = fmt.Sprintf("%s document for patient %s", resourceType, patientID)
		}

		state := g.weightedState()
		metadata := entities.ResourceMetadata{
			State:       state,
			CreatedTime: createdTime,
			FetchTime:   fetchTime,
			Identifier: entities.ResourceIdentifier{
				Key:       fmt.Sprintf("res_%s_%04d", patientID, i+1),
				UID:       fmt.Sprintf("%04d", g.rng.Intn(10000)),
				PatientID: patientID,
			},
			ResourceType: resourceType,
			Version:      1 + g.rng.Intn(2),
		}

		resource := &entities.EHRResource{
			Metadata:         metadata,
			HumanReadableStr: content,
		}
		if state == entities.ProcessingStateCompleted {
			processedTime := fetchTime.Add(time.Duration(5000+g.rng.Intn(55000)) * time.Millisecond)
			resource.Metadata.ProcessedTime = &processedTime
			resource.AISummary = g.aiSummary(resourceType)
		}
		resources = append(resources, resource)
	}
	return resources
}

func (g *GeneratorService) generateDerivedFacts(patientID string, arch archetype) *entities.DerivedFacts {
	var diagnoses []entities.DiagnosisDetail
	for i, d := range arch.diagnoses {
		diagnosisType := "primary"
		if i > 0 {
			diagnosisType = "comorbidity"
		}
		dx := entities.DiagnosisDetail{
			Text:            d.text,
			ICD10Code:       d.code,
			DiagnosisDate:   d.since,
			DiagnosisType:   diagnosisType,
			ConfidenceScore: 1.0,
		}
		dx.QualityScore = ScoreDiagnosisDetail(dx)
		diagnoses = append(diagnoses, dx)
	}

	var medications []entities.MedicationDetail
	for _, name := range arch.medications {
		code, _ := codes.RxNorm(name)
		med := entities.MedicationDetail{
			Name:       name,
			Dosage:     g.medicationDose(name),
			Frequency:  "daily",
			Route:      "PO",
			RxNormCode: code,
		}
		med.QualityScore = ScoreMedicationDetail(med)
		medications = append(medications, med)
	}

	a1cCode, _ := codes.LOINC("hemoglobin_a1c")
	egfrCode, _ := codes.LOINC("egfr")
	keyLabs := []entities.LabResult{
		{TestName: "hemoglobin_a1c", Value: g.uniform(arch.a1cMin, arch.a1cMax), Unit: "%", ReferenceRange: "<5.7", LoincCode: a1cCode},
		{TestName: "egfr", Value: float64(75 + g.rng.Intn(31)), Unit: "mL/min/1.73m2", LoincCode: egfrCode},
		{TestName: "ldl_cholesterol", Value: float64(100 + g.rng.Intn(51)), Unit: "mg/dL"},
	}
	for i := range keyLabs {
		keyLabs[i].QualityScore = ScoreLabResult(keyLabs[i])
	}

	return &entities.DerivedFacts{
		PatientID:   patientID,
		AgeYears:    arch.ageMin + g.rng.Intn(arch.ageMax-arch.ageMin+1),
		Sex:         arch.sex,
		Diagnoses:   diagnoses,
		Medications: medications,
		KeyLabs:     keyLabs,
		Exclusions:  g.sample([]string{"pregnancy", "type1_diabetes", "severe_renal_disease"}, g.rng.Intn(2)),
		Location:    midTierCities[g.rng.Intn(len(midTierCities))],
		ExtractedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func (g *GeneratorService) labReport(arch archetype) string {
	a1c := g.uniform(arch.a1cMin, arch.a1cMax)
	glucose := 140 + g.rng.Intn(81)
	creatinine := g.uniform(0.8, 1.2)
	egfr := 75 + g.rng.Intn(31)
	ldl := 100 + g.rng.Intn(51)
	hdl := 35 + g.rng.Intn(26)
	triglycerides := 150 + g.rng.Intn(71)

	return fmt.Sprintf(`Laboratory Results - %s

Hemoglobin A1C: %.1f%% (ref <5.7%%)
Fasting Glucose: %d mg/dL (ref 70-99 mg/dL)
Creatinine: %.1f mg/dL (ref 0.6-1.2 mg/dL)
eGFR: %d mL/min/1.73 m2
Lipid Panel:
  - LDL Cholesterol: %d mg/dL
  - HDL Cholesterol: %d mg/dL
  - Triglycerides: %d mg/dL`,
		g.pastDate(30), a1c, glucose, creatinine, egfr, ldl, hdl, triglycerides)
}

func (g *GeneratorService) clinicalNote(arch archetype) string {
	age := arch.ageMin + g.rng.Intn(arch.ageMax-arch.ageMin+1)
	sbp := 135 + g.rng.Intn(21)
	dbp := 85 + g.rng.Intn(11)
	a1c := g.uniform(arch.a1cMin, arch.a1cMax)

	var conditions []string
	for _, d := range arch.diagnoses {
		conditions = append(conditions, d.text)
	}
	var meds []string
	for _, med := range arch.medications {
		meds = append(meds, med+" "+g.medicationDose(med))
	}

	return fmt.Sprintf(`Clinical Visit Note - %s

%d-year-old %s with history of %s.

Current medications: %s.

Vital Signs:
- Blood Pressure: %d/%d mmHg

Assessment: Patient continues to have suboptimal glycemic control with A1C of %.1f%%.
Blood pressure remains elevated despite current antihypertensive therapy.

Plan:
- Continue current diabetes medications
- Reinforce dietary counseling and exercise recommendations
- Recheck labs in 12 weeks`,
		g.pastDate(60), age, arch.sex, strings.Join(conditions, ", "), strings.Join(meds, ", "), sbp, dbp, a1c)
}

func (g *GeneratorService) dischargeSummary(arch archetype) string {
	reasons := []string{
		"hypoglycemia episode",
		"diabetic ketoacidosis",
		"hypertensive urgency",
		"chest pain evaluation",
	}
	reason := reasons[g.rng.Intn(len(reasons))]
	glucose := 55 + g.rng.Intn(21)

	return fmt.Sprintf(`Hospital Discharge Summary - %s

Admission Diagnosis: %s
Discharge Diagnosis: %s, resolved

Hospital Course:
Patient presented to ED with %s. Glucose level was %d mg/dL on arrival.
Treated with oral glucose and IV dextrose with good response.

Medications at Discharge: %s - no changes made

Discharge Instructions:
- Follow up with primary care provider in 1-2 weeks
- Continue current medications as prescribed
- Blood glucose monitoring 2x daily`,
		g.pastDate(90), reason, reason, reason, glucose, strings.Join(arch.medications, ", "))
}

func (g *GeneratorService) medicationList(arch archetype) string {
	lines := []string{"1. Metformin 1000 mg PO BID - for diabetes"}
	if len(arch.medications) > 1 {
		doses := []string{"5mg", "10mg", "20mg"}
		lines = append(lines, fmt.Sprintf("2. %s %s PO daily - for hypertension", arch.medications[1], doses[g.rng.Intn(len(doses))]))
	}
	if len(arch.medications) > 2 {
		lines = append(lines, fmt.Sprintf("3. %s 20 mg PO QHS - for hyperlipidemia", arch.medications[2]))
	}

	return fmt.Sprintf(`Current Medication List - Updated %s

Active Medications:
%s

Allergies: NKDA (No Known Drug Allergies)

Adherence: Patient reports good adherence, occasionally misses evening doses`,
		g.pastDate(14), strings.Join(lines, "\n"))
}

func (g *GeneratorService) aiSummary(resourceType string) string {
	options, ok := aiSummaries[resourceType]
	if !ok {
		return "Standard clinical documentation reviewed."
	}
	return options[g.rng.Intn(len(options))]
}

// weightedState favors completed resources so most generated documents
// carry summaries.
func (g *GeneratorService) weightedState() entities.ProcessingState {
	roll := g.rng.Float64()
	switch {
	case roll < 0.7:
		return entities.ProcessingStateCompleted
	case roll < 0.85:
		return entities.ProcessingStateProcessing
	case roll < 0.95:
		return entities.ProcessingStateFailed
	default:
		return entities.ProcessingStateNotStarted
	}
}

func (g *GeneratorService) medicationDose(name string) string {
	if name == "metformin" {
		return "1000mg BID"
	}
	return "10mg daily"
}

func (g *GeneratorService) uniform(min, max float64) float64 {
	value := min + g.rng.Float64()*(max-min)
	return float64(int(value*10+0.5)) / 10
}

func (g *GeneratorService) sample(options []string, n int) []string {
	if n > len(options) {
		n = len(options)
	}
	picked := g.rng.Perm(len(options))[:n]
	result := make([]string, 0, n)
	for _, idx := range picked {
		result = append(result, options[idx])
	}
	return result
}

func (g *GeneratorService) pastTime(within time.Duration) time.Time {
	offset := time.Duration(g.rng.Int63n(int64(within)))
	return time.Now().UTC().Add(-offset)
}

func (g *GeneratorService) pastDate(withinDays int) string {
	return g.pastTime(time.Duration(withinDays) * 24 * time.Hour).Format("01/02/2006")
}
