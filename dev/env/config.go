package devenv

// ConfluenceTestConfig points the confluence integration test at a real
// instance, it is read from <dev_state>/confluence.json5.
type ConfluenceTestConfig struct {
	BaseUrl  string `json:"base_url"`
	Username string `json:"username"`
	Token    string `json:"token"`
	// space the test is allowed to create and edit pages in
	Space string `json:"space"`
}
