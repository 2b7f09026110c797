package stream

import "testing"

func TestClassifyTextDelta(t *testing.T) {
	ev, ok := Classify(`{"response":"Hello"}`)
	if !ok {
		t.Fatal("expected record to classify")
	}
	if ev.Kind != KindTextDelta {
		t.Errorf("expected KindTextDelta, got %s", ev.Kind)
	}
	if ev.Text != "Hello" {
		t.Errorf("expected text 'Hello', got %q", ev.Text)
	}
}

func TestClassifyEmptyDelta(t *testing.T) {
	// An empty delta is still a text-delta record, not an unrecognized one.
	ev, ok := Classify(`{"response":""}`)
	if !ok {
		t.Fatal("expected record to classify")
	}
	if ev.Kind != KindTextDelta {
		t.Errorf("expected KindTextDelta, got %s", ev.Kind)
	}
}

func TestClassifyToolCall(t *testing.T) {
	line := `{"tool_call":{"function":{"name":"query_knowledge","arguments":"{\"query\":\"mitosis\",\"mode\":\"mix\"}"}}}`
	ev, ok := Classify(line)
	if !ok {
		t.Fatal("expected record to classify")
	}
	if ev.Kind != KindToolCall {
		t.Errorf("expected KindToolCall, got %s", ev.Kind)
	}
	if ev.ToolName != "query_knowledge" {
		t.Errorf("expected tool name 'query_knowledge', got %q", ev.ToolName)
	}
	if ev.Arguments["query"] != "mitosis" {
		t.Errorf("expected decoded arguments, got %v", ev.Arguments)
	}
}

func TestClassifyToolCallBadArguments(t *testing.T) {
	line := `{"tool_call":{"function":{"name":"list_documents","arguments":"{not json"}}}`
	ev, ok := Classify(line)
	if !ok {
		t.Fatal("expected record to classify despite bad arguments")
	}
	if ev.ToolName != "list_documents" {
		t.Errorf("expected tool name preserved, got %q", ev.ToolName)
	}
	if len(ev.Arguments) != 0 {
		t.Errorf("expected empty arguments, got %v", ev.Arguments)
	}
}

func TestClassifyToolResult(t *testing.T) {
	line := `{"tool_result":{"tool_name":"list_documents","arguments":{"limit":5},"result":{"status":"success","message":"3 documents"}}}`
	ev, ok := Classify(line)
	if !ok {
		t.Fatal("expected record to classify")
	}
	if ev.Kind != KindToolResult {
		t.Errorf("expected KindToolResult, got %s", ev.Kind)
	}
	if ev.Result["status"] != "success" {
		t.Errorf("expected result status, got %v", ev.Result)
	}
	if ev.Arguments["limit"] != float64(5) {
		t.Errorf("expected refined arguments carried, got %v", ev.Arguments)
	}
}

func TestClassifyToolProgress(t *testing.T) {
	line := `{"tool_progress":{"tool_name":"generate_mindmap","progress":{"current":2,"total":8,"message":"expanding"}}}`
	ev, ok := Classify(line)
	if !ok {
		t.Fatal("expected record to classify")
	}
	if ev.Kind != KindToolProgress {
		t.Errorf("expected KindToolProgress, got %s", ev.Kind)
	}
	if ev.Progress == nil {
		t.Fatal("expected non-nil progress")
	}
	if ev.Progress.Current != 2 || ev.Progress.Total != 8 {
		t.Errorf("expected 2/8, got %d/%d", ev.Progress.Current, ev.Progress.Total)
	}
	if ev.Progress.Percentage != nil {
		t.Error("expected nil percentage when server omits it")
	}
}

func TestClassifyToolProgressServerPercentage(t *testing.T) {
	line := `{"tool_progress":{"tool_name":"generate_mindmap","progress":{"current":1,"total":3,"percentage":33.3}}}`
	ev, ok := Classify(line)
	if !ok {
		t.Fatal("expected record to classify")
	}
	if ev.Progress.Percentage == nil || *ev.Progress.Percentage != 33.3 {
		t.Errorf("expected server percentage 33.3, got %v", ev.Progress.Percentage)
	}
}

func TestClassifyToolError(t *testing.T) {
	ev, ok := Classify(`{"tool_error":{"tool_name":"query_knowledge","message":"index unavailable"}}`)
	if !ok {
		t.Fatal("expected record to classify")
	}
	if ev.Kind != KindToolError {
		t.Errorf("expected KindToolError, got %s", ev.Kind)
	}
	if ev.Message != "index unavailable" {
		t.Errorf("expected error message, got %q", ev.Message)
	}
}

func TestClassifyMindmap(t *testing.T) {
	ev, ok := Classify(`{"mindmap_content":"# Cell Biology\n"}`)
	if !ok {
		t.Fatal("expected record to classify")
	}
	if ev.Kind != KindMindmap {
		t.Errorf("expected KindMindmap, got %s", ev.Kind)
	}
}

func TestClassifyWarning(t *testing.T) {
	ev, ok := Classify(`{"warning":"knowledge graph still building"}`)
	if !ok {
		t.Fatal("expected record to classify")
	}
	if ev.Kind != KindWarning {
		t.Errorf("expected KindWarning, got %s", ev.Kind)
	}
}

func TestClassifyTurnError(t *testing.T) {
	ev, ok := Classify(`{"error":"upstream timeout"}`)
	if !ok {
		t.Fatal("expected record to classify")
	}
	if ev.Kind != KindError {
		t.Errorf("expected KindError, got %s", ev.Kind)
	}
	if ev.Text != "upstream timeout" {
		t.Errorf("expected error text, got %q", ev.Text)
	}
}

func TestClassifyMalformed(t *testing.T) {
	if _, ok := Classify("this is not json"); ok {
		t.Error("expected malformed record to be rejected")
	}
}

func TestClassifyUnrecognized(t *testing.T) {
	if _, ok := Classify(`{"usage":{"tokens":12}}`); ok {
		t.Error("expected unrecognized record to be rejected")
	}
}

func TestClassifyBlank(t *testing.T) {
	if _, ok := Classify("   "); ok {
		t.Error("expected blank line to be rejected")
	}
}

func TestClassifyPriority(t *testing.T) {
	// A record carrying both keys resolves by priority: tool_call wins over
	// response.
	line := `{"response":"x","tool_call":{"function":{"name":"list_documents","arguments":"{}"}}}`
	ev, ok := Classify(line)
	if !ok {
		t.Fatal("expected record to classify")
	}
	if ev.Kind != KindToolCall {
		t.Errorf("expected tool_call to take priority, got %s", ev.Kind)
	}
}
