package workflow

const (
	githubTokenSecretName = "GITHUB_TOKEN"
	apiKeySecretName      = "ACTIONSMITH_API_KEY"

	generateActionRef = "actionsmith/pipeline-action/.github/workflows/generate.yaml@v2"
	publishActionRef  = "actionsmith/pipeline-action/.github/workflows/publish.yaml@v2"

	githubWritePermission = "write"
)

// defaultGenerateTemplate seeds a fresh generation workflow when no existing
// file is present. It is YAML text rather than a struct so the scaffold's
// comments survive into the user's file.
const defaultGenerateTemplate = `# Generated by actionsmith. Edits are preserved across regeneration.
name: Generate

"on":
  workflow_dispatch:
    inputs:
      force:
        description: Force regeneration of pipelines
        type: boolean
        default: false
`

// defaultPublishTemplate seeds a fresh publish workflow.
const defaultPublishTemplate = `# Generated by actionsmith. Edits are preserved across regeneration.
name: Publish
`
