package testutils

// Various constant defined for to obtain dummy data for tests
const (
	ApplicationConfigPath = "/testutils/testdata/sample_config.json" // ApplicationConfigPath points to dummy config file in json format for NeuronConfig
	ManifestPath          = "/testutils/testdata/manifest.yml"       // ManifestPath points to a valid manifest with two checks
	PushEventPath         = "/testutils/testdata/push_event.json"    // PushEventPath points to a GitHub push webhook payload
)
