package tracker

import (
	"errors"
	"fmt"
	"os/exec"
	"reflect"
	"strings"
	"testing"
)

func TestParseIssueNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{
			name:    "standard github url",
			input:   "https://github.com/owner/repo/issues/123",
			want:    123,
			wantErr: false,
		},
		{
			name:    "url with extra path",
			input:   "https://github.com/owner/repo/issues/789/comments",
			want:    789,
			wantErr: false,
		},
		{
			name:    "invalid url - no issues path",
			input:   "https://github.com/owner/repo/pull/123",
			want:    0,
			wantErr: true,
		},
		{
			name:    "invalid url - no number",
			input:   "https://github.com/owner/repo/issues/",
			want:    0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseIssueNumber(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseIssueNumber() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("parseIssueNumber() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGitHubClient_CreateIssue(t *testing.T) {
	tests := []struct {
		name        string
		opts        IssueOptions
		mockOutput  []byte
		mockError   error
		wantNumber  int
		wantErr     bool
		wantErrType error
	}{
		{
			name: "successful creation",
			opts: IssueOptions{
				Title:     "Daily Study - 2026-08-30",
				Body:      "- [ ] Read one chapter",
				Labels:    []string{"study", "rota"},
				Assignees: []string{"kwalsh"},
			},
			mockOutput: []byte("https://github.com/owner/repo/issues/42\n"),
			wantNumber: 42,
		},
		{
			name:        "gh not installed",
			opts:        IssueOptions{Title: "Daily Study"},
			mockError:   &exec.Error{Name: "gh", Err: errors.New("executable file not found")},
			wantErr:     true,
			wantErrType: ErrTrackerUnavailable,
		},
		{
			name:        "authentication required",
			opts:        IssueOptions{Title: "Daily Study"},
			mockOutput:  []byte("To authenticate, run: gh auth login"),
			mockError:   fmt.Errorf("exit status 1"),
			wantErr:     true,
			wantErrType: ErrAuthRequired,
		},
		{
			name:    "empty title",
			opts:    IssueOptions{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotArgs []string
			client := NewGitHubClientWithExecutor(func(name string, args ...string) ([]byte, error) {
				gotArgs = append([]string{name}, args...)
				return tt.mockOutput, tt.mockError
			})

			num, err := client.CreateIssue(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("CreateIssue() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if tt.wantErrType != nil && !errors.Is(err, tt.wantErrType) {
					t.Errorf("CreateIssue() error = %v, want %v", err, tt.wantErrType)
				}
				return
			}
			if num != tt.wantNumber {
				t.Errorf("CreateIssue() = %v, want %v", num, tt.wantNumber)
			}
			joined := strings.Join(gotArgs, " ")
			for _, label := range tt.opts.Labels {
				if !strings.Contains(joined, "--label "+label) {
					t.Errorf("command %q missing label %q", joined, label)
				}
			}
			for _, assignee := range tt.opts.Assignees {
				if !strings.Contains(joined, "--assignee "+assignee) {
					t.Errorf("command %q missing assignee %q", joined, assignee)
				}
			}
		})
	}
}

func TestGitHubClient_CloseIssue(t *testing.T) {
	var gotArgs []string
	client := NewGitHubClientWithExecutor(func(name string, args ...string) ([]byte, error) {
		gotArgs = append([]string{name}, args...)
		return []byte("Closed issue #7"), nil
	})

	if err := client.CloseIssue(7); err != nil {
		t.Fatalf("CloseIssue failed: %v", err)
	}

	want := []string{"gh", "issue", "close", "7"}
	if !reflect.DeepEqual(gotArgs, want) {
		t.Errorf("command = %v, want %v", gotArgs, want)
	}
}

func TestGitHubClient_Labels(t *testing.T) {
	t.Run("add labels", func(t *testing.T) {
		var gotArgs []string
		client := NewGitHubClientWithExecutor(func(name string, args ...string) ([]byte, error) {
			gotArgs = append([]string{name}, args...)
			return nil, nil
		})

		if err := client.AddLabels(12, []string{"unresolved", "rota"}); err != nil {
			t.Fatalf("AddLabels failed: %v", err)
		}
		want := []string{"gh", "issue", "edit", "12",
			"--add-label", "unresolved", "--add-label", "rota"}
		if !reflect.DeepEqual(gotArgs, want) {
			t.Errorf("command = %v, want %v", gotArgs, want)
		}
	})

	t.Run("add no labels is a no-op", func(t *testing.T) {
		called := false
		client := NewGitHubClientWithExecutor(func(name string, args ...string) ([]byte, error) {
			called = true
			return nil, nil
		})
		if err := client.AddLabels(12, nil); err != nil {
			t.Fatalf("AddLabels failed: %v", err)
		}
		if called {
			t.Error("AddLabels with no labels should not invoke gh")
		}
	})

	t.Run("remove label", func(t *testing.T) {
		var gotArgs []string
		client := NewGitHubClientWithExecutor(func(name string, args ...string) ([]byte, error) {
			gotArgs = append([]string{name}, args...)
			return nil, nil
		})

		if err := client.RemoveLabel(12, "unresolved"); err != nil {
			t.Fatalf("RemoveLabel failed: %v", err)
		}
		want := []string{"gh", "issue", "edit", "12", "--remove-label", "unresolved"}
		if !reflect.DeepEqual(gotArgs, want) {
			t.Errorf("command = %v, want %v", gotArgs, want)
		}
	})

	t.Run("label exists", func(t *testing.T) {
		client := NewGitHubClientWithExecutor(func(name string, args ...string) ([]byte, error) {
			return []byte(`[{"name":"study"},{"name":"rota"}]`), nil
		})

		exists, err := client.LabelExists("Study")
		if err != nil {
			t.Fatalf("LabelExists failed: %v", err)
		}
		if !exists {
			t.Error("LabelExists should match case-insensitively")
		}

		exists, err = client.LabelExists("absent")
		if err != nil {
			t.Fatalf("LabelExists failed: %v", err)
		}
		if exists {
			t.Error("LabelExists should be false for missing label")
		}
	})
}

func TestGitHubClient_ListIssues(t *testing.T) {
	t.Run("decodes typed issues", func(t *testing.T) {
		var gotArgs []string
		client := NewGitHubClientWithExecutor(func(name string, args ...string) ([]byte, error) {
			gotArgs = append([]string{name}, args...)
			return []byte(`[
				{"number": 3, "title": "Daily Study", "body": "- [ ] read",
				 "labels": [{"name":"study"},{"name":"rota"}], "state": "OPEN"}
			]`), nil
		})

		issues, err := client.ListIssues([]string{"study", "rota"}, StateOpen)
		if err != nil {
			t.Fatalf("ListIssues failed: %v", err)
		}
		if len(issues) != 1 {
			t.Fatalf("expected 1 issue, got %d", len(issues))
		}

		got := issues[0]
		want := Issue{
			Number: 3,
			Title:  "Daily Study",
			Body:   "- [ ] read",
			Labels: []string{"study", "rota"},
			State:  StateOpen,
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("issue = %+v, want %+v", got, want)
		}

		joined := strings.Join(gotArgs, " ")
		if !strings.Contains(joined, "--label study") || !strings.Contains(joined, "--label rota") {
			t.Errorf("command %q missing label filters", joined)
		}
		if !strings.Contains(joined, "--state open") {
			t.Errorf("command %q missing state filter", joined)
		}
		// Without an explicit limit gh caps the list at 30 issues and
		// anything beyond that would be invisible to the daemon.
		if !strings.Contains(joined, "--limit "+issueListLimit) {
			t.Errorf("command %q missing result limit", joined)
		}
	})

	t.Run("empty list", func(t *testing.T) {
		client := NewGitHubClientWithExecutor(func(name string, args ...string) ([]byte, error) {
			return []byte(`[]`), nil
		})
		issues, err := client.ListIssues([]string{"study"}, StateClosed)
		if err != nil {
			t.Fatalf("ListIssues failed: %v", err)
		}
		if len(issues) != 0 {
			t.Errorf("expected no issues, got %v", issues)
		}
	})

	t.Run("malformed output", func(t *testing.T) {
		client := NewGitHubClientWithExecutor(func(name string, args ...string) ([]byte, error) {
			return []byte(`not json`), nil
		})
		if _, err := client.ListIssues([]string{"study"}, StateOpen); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestGitHubClient_AuthenticatedUser(t *testing.T) {
	client := NewGitHubClientWithExecutor(func(name string, args ...string) ([]byte, error) {
		return []byte(`{"login":"kwalsh"}`), nil
	})

	login, err := client.AuthenticatedUser()
	if err != nil {
		t.Fatalf("AuthenticatedUser failed: %v", err)
	}
	if login != "kwalsh" {
		t.Errorf("AuthenticatedUser() = %q, want kwalsh", login)
	}
}

func TestGitHubClient_Projects(t *testing.T) {
	t.Run("project exists", func(t *testing.T) {
		client := NewGitHubClientWithExecutor(func(name string, args ...string) ([]byte, error) {
			return []byte(`{"projects":[{"title":"Rota"}],"totalCount":1}`), nil
		})

		exists, err := client.ProjectExists("Rota")
		if err != nil {
			t.Fatalf("ProjectExists failed: %v", err)
		}
		if !exists {
			t.Error("ProjectExists should be true")
		}

		exists, err = client.ProjectExists("Other")
		if err != nil {
			t.Fatalf("ProjectExists failed: %v", err)
		}
		if exists {
			t.Error("ProjectExists should be false for unknown title")
		}
	})

	t.Run("create project", func(t *testing.T) {
		var gotArgs []string
		client := NewGitHubClientWithExecutor(func(name string, args ...string) ([]byte, error) {
			gotArgs = append([]string{name}, args...)
			return nil, nil
		})

		if err := client.CreateProject("Rota"); err != nil {
			t.Fatalf("CreateProject failed: %v", err)
		}
		joined := strings.Join(gotArgs, " ")
		if !strings.Contains(joined, "project create") || !strings.Contains(joined, "--title Rota") {
			t.Errorf("unexpected command: %q", joined)
		}
	})
}
