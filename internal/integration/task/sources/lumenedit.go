package sources

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/dshills/lumenedit/internal/integration/task"
)

// LumeneditSource discovers tasks from .lumenedit/tasks.json files.
type LumeneditSource struct{}

// NewLumeneditSource creates a new Lumenedit tasks source.
func NewLumeneditSource() *LumeneditSource {
	return &LumeneditSource{}
}

// Name returns the source name.
func (s *LumeneditSource) Name() string {
	return "lumenedit"
}

// Patterns returns the file patterns this source handles.
func (s *LumeneditSource) Patterns() []string {
	return []string{
		"tasks.json",
	}
}

// Priority returns the source priority (highest for lumenedit tasks).
func (s *LumeneditSource) Priority() int {
	return 200
}

// LumeneditTasksFile represents the structure of a tasks.json file.
type LumeneditTasksFile struct {
	Version string          `json:"version"`
	Tasks   []LumeneditTask  `json:"tasks"`
	Groups  []LumeneditGroup `json:"groups,omitempty"`
	Inputs  []LumeneditInput `json:"inputs,omitempty"`
}

// LumeneditTask represents a task definition in tasks.json.
type LumeneditTask struct {
	Label          string           `json:"label"`
	Type           string           `json:"type"`
	Command        string           `json:"command"`
	Args           []string         `json:"args,omitempty"`
	Options        LumeneditOptions  `json:"options,omitempty"`
	Group          LumeneditGroupRef `json:"group,omitempty"`
	ProblemMatcher interface{}      `json:"problemMatcher,omitempty"`
	DependsOn      []string         `json:"dependsOn,omitempty"`
	DependsOrder   string           `json:"dependsOrder,omitempty"`
	Detail         string           `json:"detail,omitempty"`
	Presentation   LumeneditPresent  `json:"presentation,omitempty"`
	RunOptions     LumeneditRunOpts  `json:"runOptions,omitempty"`
	IsBackground   bool             `json:"isBackground,omitempty"`
}

// LumeneditOptions contains task execution options.
type LumeneditOptions struct {
	Cwd   string            `json:"cwd,omitempty"`
	Env   map[string]string `json:"env,omitempty"`
	Shell LumeneditShell     `json:"shell,omitempty"`
}

// LumeneditShell configures the shell for task execution.
type LumeneditShell struct {
	Executable string   `json:"executable,omitempty"`
	Args       []string `json:"args,omitempty"`
}

// LumeneditGroupRef is a reference to a task group.
type LumeneditGroupRef struct {
	Kind      string `json:"kind,omitempty"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

// LumeneditPresent configures task presentation.
type LumeneditPresent struct {
	Reveal           string `json:"reveal,omitempty"`
	Echo             bool   `json:"echo,omitempty"`
	Focus            bool   `json:"focus,omitempty"`
	Panel            string `json:"panel,omitempty"`
	ShowReuseMessage bool   `json:"showReuseMessage,omitempty"`
	Clear            bool   `json:"clear,omitempty"`
}

// LumeneditRunOpts configures run behavior.
type LumeneditRunOpts struct {
	InstanceLimit     int    `json:"instanceLimit,omitempty"`
	RunOn             string `json:"runOn,omitempty"`
	ReevaluateOnRerun bool   `json:"reevaluateOnRerun,omitempty"`
}

// LumeneditGroup defines a task group.
type LumeneditGroup struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// LumeneditInput defines an input variable.
type LumeneditInput struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Default     string   `json:"default,omitempty"`
	Options     []string `json:"options,omitempty"`
}

// Discover finds tasks in a tasks.json file.
func (s *LumeneditSource) Discover(ctx context.Context, path string) ([]*task.Task, error) {
	// Only process files in .lumenedit directories
	dir := filepath.Dir(path)
	if filepath.Base(dir) != ".lumenedit" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tf LumeneditTasksFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, err
	}

	if len(tf.Tasks) == 0 {
		return nil, nil
	}

	var tasks []*task.Task
	for _, kt := range tf.Tasks {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		t := &task.Task{
			Name:        kt.Label,
			Description: kt.Detail,
			Type:        s.mapTaskType(kt.Type),
			Group:       s.mapGroup(kt.Group.Kind),
			Command:     kt.Command,
			Args:        kt.Args,
			Cwd:         kt.Options.Cwd,
			Env:         kt.Options.Env,
			DependsOn:   kt.DependsOn,
			IsDefault:   kt.Group.IsDefault,
		}

		// Set problem matcher
		if pm := s.extractProblemMatcher(kt.ProblemMatcher); pm != "" {
			t.ProblemMatcher = pm
		}

		// Set run options
		if kt.RunOptions.InstanceLimit > 0 || kt.RunOptions.RunOn != "" {
			t.RunOptions = &task.RunOptions{
				InstanceLimit:     kt.RunOptions.InstanceLimit,
				RunOn:             kt.RunOptions.RunOn,
				ReevaluateOnRerun: kt.RunOptions.ReevaluateOnRerun,
			}
		}

		tasks = append(tasks, t)
	}

	return tasks, nil
}

// mapTaskType maps a lumenedit task type to our TaskType.
func (s *LumeneditSource) mapTaskType(t string) task.TaskType {
	switch t {
	case "shell":
		return task.TaskTypeShell
	case "process":
		return task.TaskTypeProcess
	case "npm":
		return task.TaskTypeNPM
	default:
		return task.TaskTypeShell
	}
}

// mapGroup maps a lumenedit group kind to our TaskGroup.
func (s *LumeneditSource) mapGroup(kind string) task.TaskGroup {
	switch kind {
	case "build":
		return task.TaskGroupBuild
	case "test":
		return task.TaskGroupTest
	case "run":
		return task.TaskGroupRun
	case "clean":
		return task.TaskGroupClean
	case "lint":
		return task.TaskGroupLint
	default:
		return task.TaskGroupOther
	}
}

// extractProblemMatcher extracts the problem matcher name.
func (s *LumeneditSource) extractProblemMatcher(pm interface{}) string {
	switch v := pm.(type) {
	case string:
		return v
	case []interface{}:
		if len(v) > 0 {
			if str, ok := v[0].(string); ok {
				return str
			}
		}
	}
	return ""
}

// CreateLumeneditTasksFile creates a new tasks.json file with sample tasks.
func CreateLumeneditTasksFile(dir string) error {
	tasksDir := filepath.Join(dir, ".lumenedit")
	if err := os.MkdirAll(tasksDir, 0755); err != nil {
		return err
	}

	tf := LumeneditTasksFile{
		Version: "1.0.0",
		Tasks: []LumeneditTask{
			{
				Label:   "Build",
				Type:    "shell",
				Command: "go",
				Args:    []string{"build", "./..."},
				Group: LumeneditGroupRef{
					Kind:      "build",
					IsDefault: true,
				},
				ProblemMatcher: "$go",
			},
			{
				Label:   "Test",
				Type:    "shell",
				Command: "go",
				Args:    []string{"test", "./..."},
				Group: LumeneditGroupRef{
					Kind: "test",
				},
				ProblemMatcher: "$go",
			},
		},
	}

	data, err := json.MarshalIndent(tf, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(tasksDir, "tasks.json"), data, 0644)
}

// LoadLumeneditTasks loads the tasks.json file from a directory.
func LoadLumeneditTasks(dir string) (*LumeneditTasksFile, error) {
	path := filepath.Join(dir, ".lumenedit", "tasks.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tf LumeneditTasksFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, err
	}

	return &tf, nil
}

// SaveLumeneditTasks saves the tasks.json file to a directory.
func SaveLumeneditTasks(dir string, tf *LumeneditTasksFile) error {
	tasksDir := filepath.Join(dir, ".lumenedit")
	if err := os.MkdirAll(tasksDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(tf, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(tasksDir, "tasks.json"), data, 0644)
}
