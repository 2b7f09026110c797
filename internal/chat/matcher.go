package chat

import "github.com/awilkes/kbchat/internal/stream"

// The backend sends no call identifiers, so progress/result/error events
// attach to the most recent still-pending invocation with a matching tool
// name. That is sound while at most one call per tool name is outstanding
// at a time; two concurrent same-name calls cannot be told apart and may
// take each other's events. Callers hold s.mu.

func (s *Session) lastPending(name string) *ToolInvocation {
	for i := len(s.items) - 1; i >= 0; i-- {
		inv, ok := s.items[i].(*ToolInvocation)
		if ok && inv.Name == name && inv.Status == StatusPending {
			return inv
		}
	}
	return nil
}

func (s *Session) applyProgress(ev stream.Event) bool {
	inv := s.lastPending(ev.ToolName)
	if inv == nil || ev.Progress == nil {
		return inv != nil
	}
	p := &Progress{
		Current: ev.Progress.Current,
		Total:   ev.Progress.Total,
		Message: ev.Progress.Message,
	}
	switch {
	case ev.Progress.Percentage != nil:
		p.Percent = *ev.Progress.Percentage
	case p.Total > 0:
		p.Percent = float64(p.Current) / float64(p.Total) * 100
	}
	inv.Progress = p
	return true
}

func (s *Session) applyResult(ev stream.Event) bool {
	inv := s.lastPending(ev.ToolName)
	if inv == nil {
		return false
	}
	// The result may carry a refined argument set (the backend fills in
	// defaults the model omitted); prefer it over the original.
	if len(ev.Arguments) > 0 {
		inv.Arguments = ev.Arguments
	}
	inv.Result = ev.Result
	if status, _ := ev.Result["status"].(string); status == "success" {
		inv.Status = StatusSuccess
	} else {
		inv.Status = StatusError
		if msg, _ := ev.Result["message"].(string); msg != "" {
			inv.ErrorMessage = msg
		}
	}
	inv.Progress = nil
	return true
}

func (s *Session) applyToolError(ev stream.Event) bool {
	inv := s.lastPending(ev.ToolName)
	if inv == nil {
		return false
	}
	inv.Status = StatusError
	inv.ErrorMessage = ev.Message
	inv.Progress = nil
	return true
}
