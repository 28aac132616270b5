package stages_test

import (
	"context"
	"strings"
	"testing"

	"github.com/JaimeStill/caregate/internal/stages"
)

func mockInvoker(t *testing.T) *stages.Invoker {
	backend, err := stages.NewBackend(testConfig(t))
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	return stages.New(testConfig(t), backend, nil, discard())
}

func TestMockScore(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"Severe chest pain radiating to my arm", 0.2},
		{"I think this is an EMERGENCY", 0.2},
		{"chronic back pain", 0.6},
		{"Which medication helps with allergies?", 0.6},
		{"How much water should I drink daily?", 0.8},
	}

	inv := mockInvoker(t)
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			out := inv.Score(context.Background(), tt.text)
			if out.Degraded || out.Value != tt.want {
				t.Errorf("Score(%q) = %+v, want %v", tt.text, out, tt.want)
			}
		})
	}
}

func TestMockEnhanceFeedsScore(t *testing.T) {
	inv := mockInvoker(t)
	enhanced := inv.Enhance(context.Background(), "dying of thirst")
	if enhanced.Degraded || !strings.HasPrefix(enhanced.Value, "Enhanced: dying of thirst") {
		t.Fatalf("Enhance() = %+v", enhanced)
	}

	if score := inv.Score(context.Background(), enhanced.Value); score.Value != 0.2 {
		t.Errorf("Score(enhanced) = %v, want 0.2", score.Value)
	}
}

func TestMockRespond(t *testing.T) {
	inv := mockInvoker(t)
	out := inv.Respond(context.Background(), "headache for three days", []string{"blood panel"}, nil)

	if out.Degraded {
		t.Fatal("mock respond should not degrade")
	}
	for _, want := range []string{
		"Response to: headache for three days",
		"not a substitute for professional medical advice",
		"- File 1: blood panel",
	} {
		if !strings.Contains(out.Value, want) {
			t.Errorf("response missing %q:\n%s", want, out.Value)
		}
	}
}

func TestMockHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := (stages.MockBackend{}).Complete(ctx, stages.Request{}); err == nil {
		t.Error("cancelled context should fail")
	}
}
