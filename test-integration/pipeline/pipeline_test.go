package integration

import (
	"bytes"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/muicebot/plugin-index/cmd/plugin-index/app"
	"github.com/muicebot/plugin-index/internal/registry"
	"github.com/muicebot/plugin-index/test-integration/pipeline/helpers"
)

// runCLI executes plugin-index with the workflow environment of ws
func runCLI(ws *helpers.Workspace, eventName string, args ...string) error {
	setEnv := func(key, value string) {
		previous, had := os.LookupEnv(key)
		Expect(os.Setenv(key, value)).To(Succeed())
		DeferCleanup(func() {
			if had {
				_ = os.Setenv(key, previous)
			} else {
				_ = os.Unsetenv(key)
			}
		})
	}
	setEnv("GITHUB_EVENT_NAME", eventName)
	setEnv("GITHUB_EVENT_PATH", ws.EventPath)
	setEnv("GITHUB_OUTPUT", ws.OutputPath)

	cmd := app.NewRootCmd()
	cmd.SetOut(GinkgoWriter)
	cmd.SetErr(GinkgoWriter)
	cmd.SetArgs(append(args, "--config", ws.ConfigPath, "--workdir", ws.Dir))
	return cmd.ExecuteContext(ctx)
}

var _ = Describe("Plugin submission", Label("pipeline"), func() {
	var (
		tempDir string
		ws      *helpers.Workspace
		repo    *helpers.GitTestRepository
	)

	BeforeEach(func() {
		tempDir = GinkgoT().TempDir()
		repo = helpers.CreateRepository(tempDir, "muicebot-plugin-foo", map[string]string{
			"foo_plugin/__init__.py": "__plugin_meta__ = None\n",
			"README.md":              "# Foo\n",
		})
	})

	Context("with a loadable plugin", func() {
		BeforeEach(func() {
			ws = helpers.NewWorkspace(GinkgoT().TempDir(), helpers.ProbeScript)
		})

		It("should publish the plugin and regenerate the listing", func() {
			ws.WriteIssueEvent("open", []string{"Plugin"},
				helpers.SubmissionBody("Foo", "foo_plugin", "Does X", repo.CloneURL, "FOO_TOKEN=abc"))
			ws.WriteFile("Muicebot/.env", "HOST=1\n")

			Expect(runCLI(ws, "issues", "run")).To(Succeed())

			By("cloning the repository into the plugins directory")
			Expect(ws.Exists("Muicebot/plugins/foo/foo_plugin/__init__.py")).To(BeTrue())

			By("setting the plugin_name output")
			Expect(ws.Outputs()).To(HaveKeyWithValue("plugin_name", "Foo"))
			Expect(ws.Outputs()).NotTo(HaveKey("should_skip"))

			By("appending the configuration block to the env file")
			Expect(ws.ReadFile("Muicebot/.env")).To(Equal("HOST=1\n\nFOO_TOKEN=abc\n"))

			By("recording the plugin in the registry")
			reg, err := registry.Parse([]byte(ws.ReadFile("plugins.json")))
			Expect(err).NotTo(HaveOccurred())
			entry, ok := reg.Get("foo")
			Expect(ok).To(BeTrue())
			Expect(entry).To(Equal(registry.Entry{
				Module:      "foo_plugin",
				Name:        "Foo",
				Description: "Does X",
				Repo:        repo.CloneURL,
			}))

			By("rendering the listing")
			Expect(ws.ReadFile("README.md")).To(ContainSubstring("[foo](" + repo.CloneURL + ")"))
		})

		It("should keep existing registry entries in order", func() {
			ws.WriteFile("plugins.json", `{
    "zeta": {"module": "zeta", "description": "Z", "repo": "https://example/zeta"},
    "alpha": {"module": "alpha", "description": "A", "repo": "https://example/alpha"}
}`)
			ws.WriteIssueEvent("open", []string{"enhancement", "Plugin"},
				helpers.SubmissionBody("Foo", "foo_plugin", "Does X", repo.CloneURL, ""))

			Expect(runCLI(ws, "issue_comment", "run")).To(Succeed())

			reg, err := registry.Parse([]byte(ws.ReadFile("plugins.json")))
			Expect(err).NotTo(HaveOccurred())
			Expect(reg.Keys()).To(Equal([]string{"zeta", "alpha", "foo"}))
			Expect(ws.Exists("Muicebot/.env")).To(BeFalse())
		})

		It("should skip closed issues without touching the registry", func() {
			ws.WriteIssueEvent("closed", []string{"Plugin"},
				helpers.SubmissionBody("Foo", "foo_plugin", "Does X", repo.CloneURL, ""))

			Expect(runCLI(ws, "issues", "run")).To(Succeed())

			Expect(ws.Outputs()).To(HaveKeyWithValue("should_skip", "true"))
			Expect(ws.Exists("plugins.json")).To(BeFalse())
			Expect(ws.Exists("Muicebot/plugins/foo")).To(BeFalse())
		})

		It("should fail a malformed submission before cloning", func() {
			ws.WriteIssueEvent("open", []string{"Plugin"}, "### 插件名\n\nFoo\n")

			Expect(runCLI(ws, "issues", "run")).NotTo(Succeed())

			Expect(ws.Exists("Muicebot/plugins/foo")).To(BeFalse())
			Expect(ws.Exists("plugins.json")).To(BeFalse())
			Expect(ws.Outputs()).To(BeEmpty())
		})

		It("should abort on a corrupt registry and leave it unchanged", func() {
			ws.WriteFile("plugins.json", "{\"broken\": ")
			ws.WriteIssueEvent("open", []string{"Plugin"},
				helpers.SubmissionBody("Foo", "foo_plugin", "Does X", repo.CloneURL, ""))

			Expect(runCLI(ws, "issues", "run")).NotTo(Succeed())
			Expect(ws.ReadFile("plugins.json")).To(Equal("{\"broken\": "))
			Expect(ws.Exists("README.md")).To(BeFalse())
		})
	})

	Context("with a plugin the host cannot load", func() {
		BeforeEach(func() {
			ws = helpers.NewWorkspace(GinkgoT().TempDir(), helpers.FailingProbeScript)
		})

		It("should fail without publishing", func() {
			ws.WriteIssueEvent("open", []string{"Plugin"},
				helpers.SubmissionBody("Foo", "foo_plugin", "Does X", repo.CloneURL, ""))

			Expect(runCLI(ws, "issues", "run")).NotTo(Succeed())

			Expect(ws.Outputs()).NotTo(HaveKey("plugin_name"))
			Expect(ws.Exists("plugins.json")).To(BeFalse())
		})
	})

	Context("extract command", func() {
		It("should print the submission without side effects", func() {
			ws = helpers.NewWorkspace(GinkgoT().TempDir(), helpers.ProbeScript)
			ws.WriteFile("body.md", helpers.SubmissionBody("Foo", "foo_plugin", "Does X", repo.CloneURL, "A=1\nB=2"))

			var out bytes.Buffer
			cmd := app.NewRootCmd()
			cmd.SetOut(&out)
			cmd.SetErr(GinkgoWriter)
			cmd.SetArgs([]string{"extract", ws.Dir + "/body.md", "--workdir", ws.Dir})
			Expect(cmd.ExecuteContext(ctx)).To(Succeed())

			Expect(out.String()).To(MatchJSON(`{
				"name": "Foo",
				"project": "foo",
				"module": "foo_plugin",
				"description": "Does X",
				"repo": "` + repo.CloneURL + `",
				"config": "A=1\nB=2"
			}`))
			Expect(ws.Exists("Muicebot/plugins/foo")).To(BeFalse())
		})
	})
})
