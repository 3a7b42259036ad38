package helpers

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/onsi/gomega"
)

// ProbeScript is a shell probe reporting every plugin as loaded. The plugin
// path arrives as $0.
const ProbeScript = `printf '{"loaded": true, "meta": {"path": "%s"}, "error": ""}\n' "$0"`

// FailingProbeScript reports every plugin as not loadable
const FailingProbeScript = `echo 'Traceback (most recent call last):'; echo '{"loaded": false, "meta": null, "error": "No module named foo"}'`

// Workspace is a working directory laid out like the plugin index repository
type Workspace struct {
	Dir        string
	ConfigPath string
	EventPath  string
	OutputPath string
}

// NewWorkspace creates a workspace under dir whose loader runs probe with sh
func NewWorkspace(dir, probe string) *Workspace {
	gomega.Expect(os.MkdirAll(filepath.Join(dir, "Muicebot", "plugins"), 0750)).To(gomega.Succeed())

	ws := &Workspace{
		Dir:        dir,
		ConfigPath: filepath.Join(dir, "plugin-index.yaml"),
		EventPath:  filepath.Join(dir, "event.json"),
		OutputPath: filepath.Join(dir, "github_output"),
	}

	args, err := json.Marshal([]string{"-c", probe, "{plugin}"})
	gomega.Expect(err).NotTo(gomega.HaveOccurred())

	// JSON is valid YAML flow syntax
	config := "installer:\n  python: python3\nloader:\n  command: sh\n  args: " + string(args) + "\n"
	gomega.Expect(os.WriteFile(ws.ConfigPath, []byte(config), 0600)).To(gomega.Succeed())

	return ws
}

// WriteIssueEvent writes an issue event payload carrying body
func (w *Workspace) WriteIssueEvent(state string, labels []string, body string) {
	labelObjects := make([]map[string]string, 0, len(labels))
	for _, label := range labels {
		labelObjects = append(labelObjects, map[string]string{"name": label})
	}

	data, err := json.Marshal(map[string]any{
		"action": "opened",
		"issue": map[string]any{
			"state":  state,
			"labels": labelObjects,
			"body":   body,
		},
	})
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	gomega.Expect(os.WriteFile(w.EventPath, data, 0600)).To(gomega.Succeed())
}

// WriteFile writes a file relative to the workspace
func (w *Workspace) WriteFile(name, content string) {
	path := filepath.Join(w.Dir, name)
	gomega.Expect(os.MkdirAll(filepath.Dir(path), 0750)).To(gomega.Succeed())
	gomega.Expect(os.WriteFile(path, []byte(content), 0600)).To(gomega.Succeed())
}

// ReadFile returns the content of a workspace file, or "" when it does not exist
func (w *Workspace) ReadFile(name string) string {
	data, err := os.ReadFile(filepath.Join(w.Dir, name))
	if os.IsNotExist(err) {
		return ""
	}
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	return string(data)
}

// Exists reports whether a workspace file exists
func (w *Workspace) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(w.Dir, name))
	return err == nil
}

// Outputs parses the single-line step outputs written by the run
func (w *Workspace) Outputs() map[string]string {
	outputs := map[string]string{}
	for _, line := range strings.Split(w.ReadFile(filepath.Base(w.OutputPath)), "\n") {
		if key, value, ok := strings.Cut(line, "="); ok {
			outputs[key] = value
		}
	}
	return outputs
}

// SubmissionBody renders an issue body as the submission issue form does
func SubmissionBody(name, module, description, repo, config string) string {
	sections := []string{
		"### 插件名\n\n" + name,
		"### 插件模块名\n\n" + module,
		"### 插件描述\n\n" + description,
		"### 项目链接\n\n" + repo,
	}
	if config != "" {
		sections = append(sections, "### 插件配置\n\n```dotenv\n"+config+"\n```")
	} else {
		sections = append(sections, "### 插件配置\n\n_No response_")
	}
	return strings.Join(sections, "\n\n")
}
