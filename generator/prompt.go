package generator

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var promptsRaw []byte

type promptTemplates struct {
	SysGen     string `yaml:"sys_gen"`
	UsrGen     string `yaml:"usr_gen"`
	SysGenName string `yaml:"sys_gen_name"`
	UsrGenName string `yaml:"usr_gen_name"`
}

var (
	templatesOnce sync.Once
	templates     promptTemplates
	templatesErr  error
)

func loadTemplates() (promptTemplates, error) {
	templatesOnce.Do(func() {
		templatesErr = yaml.Unmarshal(promptsRaw, &templates)
		if templatesErr == nil && (templates.SysGen == "" || templates.SysGenName == "") {
			templatesErr = fmt.Errorf("prompts.yaml missing required templates")
		}
	})
	return templates, templatesErr
}

// BuildGeneratePrompt fills the build templates with the request details and
// the block allow-list.
func BuildGeneratePrompt(description, version, blockList string) (Prompt, error) {
	t, err := loadTemplates()
	if err != nil {
		return Prompt{}, err
	}
	sys := strings.NewReplacer(
		"%MINECRAFT_VERSION%", version,
		"%BLOCK_TYPES_LIST%", blockList,
	).Replace(t.SysGen)
	user := strings.ReplaceAll(t.UsrGen, "%DESCRIPTION%", description)
	return Prompt{System: sys, User: user}, nil
}

// BuildNamePrompt fills the file-name templates.
func BuildNamePrompt(description string) (Prompt, error) {
	t, err := loadTemplates()
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{
		System: t.SysGenName,
		User:   strings.ReplaceAll(t.UsrGenName, "%DESCRIPTION%", description),
	}, nil
}
