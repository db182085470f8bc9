package config

import (
	"fmt"
	"os"
)

const exampleConfig = `# blogbuilder configuration

source:
  # Git repository holding the content tree. Mutually exclusive with path.
  repository: https://github.com/example/blog.git
  # branch: main
  # Local content tree, used instead of cloning:
  # path: ./my-blog
  # Subdirectory containing the Markdown documents:
  content_dir: blogs

site:
  # Defaults to the repository name when omitted.
  # title: My Blog
  # copyright: "© 2025 My Blog"
  # navigation:
  #   - name: Home
  #     url: /
  #   - name: About
  #     url: /about.html

templates:
  dir: templates
  # page: templates/page.html
  # home: templates/home.html
  # Fail instead of falling back to the built-in page template:
  # strict: true

output:
  directory: ./site

build:
  # Parallel render workers, 0 uses all CPUs:
  workers: 0
`

// Init writes an example configuration file with commented defaults.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
