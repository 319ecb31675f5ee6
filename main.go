package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"buildergpt/artifact"
	"buildergpt/component"
	"buildergpt/generator"
	"buildergpt/logx"
	"buildergpt/schematic"
	"buildergpt/server"
)

func main() {
	configPath := flag.String("config", "config/config.json", "path to config.json")
	desc := flag.String("desc", "", "structure description")
	mcVersion := flag.String("mc-version", "1.20.1", "target minecraft version (eg. 1.20.1)")
	format := flag.String("format", "schem", "export format: schem or mcfunction")
	imagePath := flag.String("image", "", "optional reference image the model should reproduce")
	serve := flag.Bool("serve", false, "start web server")
	addr := flag.String("addr", "", "http listen address when --serve (overrides config.server_addr)")
	verbose := flag.Bool("v", false, "enable debug logs")
	flag.Parse()

	_ = godotenv.Load()
	log := logx.New(*verbose)

	cfg, err := artifact.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	policy, err := schematic.ParseBlockPolicy(cfg.BlockPolicy)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	llm, err := buildLLM(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	agent, err := generator.NewAgent(llm, schematic.BlockList(), log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	writer := artifact.NewWriter(cfg.OutputDir, log)
	comp, err := component.New(agent, writer, policy, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Web server mode
	if *serve {
		srv, err := server.New(comp, writer, log)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		listen := cfg.ServerAddr
		if *addr != "" {
			listen = *addr
		}
		if listen == "" {
			listen = ":8080"
		}
		log.Info().Str("addr", listen).Msg("starting web server")
		if err := http.ListenAndServe(listen, srv.Routes()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if *desc == "" {
		fmt.Fprintln(os.Stderr, "--desc is required (or use --serve)")
		os.Exit(1)
	}
	exportFormat, err := schematic.ParseExportFormat(*format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	var imageDataURL string
	if *imagePath != "" {
		imageDataURL, err = generator.LoadImageDataURL(*imagePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	result, err := comp.Generate(context.Background(), component.Request{
		Description:  *desc,
		Version:      *mcVersion,
		Format:       exportFormat,
		ImageDataURL: imageDataURL,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for _, w := range result.Warnings {
		log.Warn().Msg(w)
	}
	fmt.Println(result.Path)
}

func buildLLM(cfg artifact.Config) (generator.LLMClient, error) {
	provider := "openai"
	if cfg.LLM != nil && cfg.LLM.Provider != "" {
		provider = cfg.LLM.Provider
	}
	settings := &generator.LLMSettings{
		Provider: provider,
		APIKey:   cfg.LLM.ResolveAPIKey(),
	}
	if cfg.LLM != nil {
		settings.Model = cfg.LLM.Model
		settings.BaseURL = cfg.LLM.BaseURL
	}
	if settings.Model == "" {
		settings.Model = "gpt-4o"
	}
	switch provider {
	case "openai":
		return generator.NewOpenAILLMFromConfig(settings)
	case "deepseek":
		// DeepSeek exposes an OpenAI-compatible API; base_url is mandatory.
		if settings.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		return generator.NewOpenAILLMFromConfig(settings)
	case "mock":
		return generator.MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", provider)
	}
}
