package services

import (
	"errors"
	"testing"

	"studyhall-backend/internal/models"
)

func TestParseFlashcards(t *testing.T) {
	clean := `[{"front":"What is ATP?","back":"Energy currency","category":"Biology","difficulty":"easy"},
{"front":"Define osmosis","back":"Water diffusion across a membrane","category":"Biology","difficulty":"medium"}]`

	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{"clean array", clean, 2, false},
		{"fenced array", "```json\n" + clean + "\n```", 2, false},
		{"prose wrapped", "Here are your cards:\n" + clean + "\nEnjoy!", 2, false},
		{"truncates extras", clean, 1, false},
		{"too few usable", clean, 3, true},
		{"empty fields dropped", `[{"front":"","back":"x"},{"front":"q","back":"a"}]`, 1, false},
		{"not json", "I could not generate flashcards.", 1, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cards, err := parseFlashcards(tc.raw, tc.want, "medium", "General")
			if tc.wantErr {
				if err == nil {
					t.Fatal("Expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(cards) != tc.want {
				t.Errorf("Expected %d cards, got %d", tc.want, len(cards))
			}
		})
	}
}

func TestParseFlashcards_AppliesDefaults(t *testing.T) {
	cards, err := parseFlashcards(`[{"front":"q","back":"a","difficulty":"brutal"}]`, 1, "hard", "Chemistry")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cards[0].Difficulty != "hard" {
		t.Errorf("Expected default difficulty hard, got %q", cards[0].Difficulty)
	}
	if cards[0].Category != "Chemistry" {
		t.Errorf("Expected default category Chemistry, got %q", cards[0].Category)
	}
}

func TestParseQuiz_ObjectAndArrayShapes(t *testing.T) {
	object := `{"title":"Cell Biology","questions":[{"prompt":"Powerhouse of the cell?","type":"multiple_choice","options":["Nucleus","Mitochondria","Ribosome","Golgi"],"correct_answer":"Mitochondria"}]}`
	array := `[{"prompt":"Water is H2O.","type":"true_false","correct_answer":"true"}]`
	wrapped := "Sure! " + object + " Hope this helps."

	tests := []struct {
		name      string
		raw       string
		wantTitle string
		wantN     int
	}{
		{"object", object, "Cell Biology", 1},
		{"bare array gets default title", array, "Study Quiz", 1},
		{"prose wrapped object", wrapped, "Cell Biology", 1},
		{"fenced object", "```json\n" + object + "\n```", "Cell Biology", 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			title, questions, err := parseQuiz(tc.raw, "mixed")
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if title != tc.wantTitle {
				t.Errorf("Expected title %q, got %q", tc.wantTitle, title)
			}
			if len(questions) != tc.wantN {
				t.Errorf("Expected %d questions, got %d", tc.wantN, len(questions))
			}
		})
	}
}

func TestParseQuiz_Unparsable(t *testing.T) {
	_, _, err := parseQuiz("no json here at all", "mixed")
	if !errors.Is(err, ErrUnparsable) {
		t.Errorf("Expected ErrUnparsable, got %v", err)
	}
}

func TestRepairQuestion(t *testing.T) {
	tests := []struct {
		name       string
		in         models.QuizQuestion
		wantOK     bool
		wantAnswer string
		wantType   string
	}{
		{
			name: "letter answer resolved to option",
			in: models.QuizQuestion{
				Prompt:        "Pick one",
				Type:          "multiple_choice",
				Options:       []string{"Red", "Green", "Blue"},
				CorrectAnswer: "B",
			},
			wantOK:     true,
			wantAnswer: "Green",
			wantType:   models.QuestionMultipleChoice,
		},
		{
			name: "mc answer not in options rejected",
			in: models.QuizQuestion{
				Prompt:        "Pick one",
				Type:          "multiple_choice",
				Options:       []string{"Red", "Green"},
				CorrectAnswer: "Purple",
			},
			wantOK: false,
		},
		{
			name: "true_false normalized",
			in: models.QuizQuestion{
				Prompt:        "The sky is blue.",
				Type:          "true/false",
				CorrectAnswer: "t",
			},
			wantOK:     true,
			wantAnswer: "True",
			wantType:   models.QuestionTrueFalse,
		},
		{
			name: "unknown type falls back to requested",
			in: models.QuizQuestion{
				Prompt:        "Explain photosynthesis",
				Type:          "essay",
				CorrectAnswer: "Light to chemical energy",
			},
			wantOK:     true,
			wantAnswer: "Light to chemical energy",
			wantType:   models.QuestionShortAnswer,
		},
		{
			name:   "empty prompt rejected",
			in:     models.QuizQuestion{Prompt: "", CorrectAnswer: "x"},
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := repairQuestion(tc.in, models.QuestionShortAnswer)
			if ok != tc.wantOK {
				t.Fatalf("Expected ok=%v, got %v", tc.wantOK, ok)
			}
			if !ok {
				return
			}
			if got.CorrectAnswer != tc.wantAnswer {
				t.Errorf("Expected answer %q, got %q", tc.wantAnswer, got.CorrectAnswer)
			}
			if got.Type != tc.wantType {
				t.Errorf("Expected type %q, got %q", tc.wantType, got.Type)
			}
		})
	}
}

func TestParseGrade(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantScore float64
		wantErr   bool
	}{
		{"clean", `{"score": 85, "feedback": "Good answer"}`, 85, false},
		{"fenced", "```json\n{\"score\": 70, \"feedback\": \"ok\"}\n```", 70, false},
		{"clamped high", `{"score": 130, "feedback": ""}`, 100, false},
		{"clamped low", `{"score": -10, "feedback": ""}`, 0, false},
		{"missing score", `{"feedback": "no score"}`, 0, true},
		{"not json", "the answer looks fine", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			score, _, err := parseGrade(tc.raw)
			if tc.wantErr {
				if !errors.Is(err, ErrUnparsable) {
					t.Fatalf("Expected ErrUnparsable, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if score != tc.wantScore {
				t.Errorf("Expected score %v, got %v", tc.wantScore, score)
			}
		})
	}
}
