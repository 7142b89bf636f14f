package config

// SampleConfig returns a fully commented configuration file
func SampleConfig() string {
	return `# AIDetect configuration
version: "1.0"

server:
  # Where the analysis service listens
  base_url: "http://localhost:5001"
  upload_path: "/upload"
  analyze_text_path: "/analyze_text"
  # 0 waits for the service indefinitely
  timeout: 0s

upload:
  # Files with these extensions are sent with OCR options
  image_extensions: ["png", "jpg", "jpeg"]
  # printed | handwritten
  ocr_model: "printed"

output:
  # text | json | markdown | csv (used with --no-tui)
  default_format: "text"
  # auto | always | never
  color_mode: "auto"
  # default | high-contrast | minimal
  theme: "default"
  verbose: false
  show_chart: true
  chart_width: 40
`
}

// MinimalSampleConfig returns a configuration with only the essentials
func MinimalSampleConfig() string {
	return `version: "1.0"
server:
  base_url: "http://localhost:5001"
upload:
  ocr_model: "printed"
`
}
