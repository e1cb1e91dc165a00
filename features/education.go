package features

import "github.com/glasslink/skillrt/types"

// EducationBuilder encodes tutoring payloads: grade, difficulty,
// answer counts, and lexical signals from the question text.
type EducationBuilder struct{}

func (EducationBuilder) Name() string { return "education" }

func (EducationBuilder) Build(p types.Payload, dim int) []float64 {
	correct := p.NumberOr("correctCount", 0)
	incorrect := p.NumberOr("incorrectCount", 0)
	accuracy := 0.0
	if total := correct + incorrect; total > 0 {
		accuracy = correct / total
	}

	question := p.TextOr("question", "")
	signals := []float64{
		p.NumberOr("gradeLevel", 0),
		p.NumberOr("difficulty", 0),
		correct,
		incorrect,
		accuracy,
		p.Flag("homeworkMode"),
		p.Flag("examPrep"),
		tokenCount(question),
		lengthBucket(question),
		keywordFlag(question, "why", "为什么", "how", "怎么"),
		listOverlap(p.List("subjects"), "math", "数学", "chemistry", "化学", "physics", "物理"),
	}

	// Worksheet skills may attach an arithmetic formula to grade.
	if f := p.TextOr("formula", ""); f != "" {
		if v, ok := evalFormula(f); ok {
			signals = append(signals, v)
		}
	}
	return fit(signals, dim)
}
