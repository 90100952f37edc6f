package steamcmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/andygrunwald/vdf"
)

// Retrieves application info for an app from steam.
// Returns an error if steamcmd fails.
// Returns an error if the app info cannot be found in, or parsed from, the steamcmd output.
func (s *Session) AppInfo(ctx context.Context, appId int) (map[string]any, error) {
	fail := func(err error) (map[string]any, error) {
		return map[string]any{}, err
	}
	s.logger.Info("get app info", "app", appId)
	cmd := NewCommand()
	cmd.Custom("+app_info_update 1")
	cmd.Custom(fmt.Sprintf("+app_info_print %d", appId))
	output, err := s.run(ctx, cmd, 1, false)
	if err != nil {
		return fail(err)
	}
	return ParseAppInfo(output, appId)
}

// Locates and parses the VDF block describing an app within steamcmd output.
// Returns an error if the block is missing or unparseable.
func ParseAppInfo(output string, appId int) (map[string]any, error) {
	fail := func(err error) (map[string]any, error) {
		return map[string]any{}, err
	}
	key := fmt.Sprintf("%d", appId)
	marker := fmt.Sprintf("\"%s\"", key)
	appInfoString := ""
	lines := strings.Split(output, "\n")
	for index, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), marker) {
			continue
		}
		appInfoString = strings.Join(lines[index:], "\n")
		break
	}
	if appInfoString == "" {
		return fail(fmt.Errorf("data not found in steamcmd output"))
	}
	parser := vdf.NewParser(strings.NewReader(appInfoString))
	parsed, err := parser.Parse()
	if err != nil {
		return fail(err)
	}
	appInfo, ok := parsed[key].(map[string]any)
	if !ok {
		return fail(fmt.Errorf("app id %s not found in app info", key))
	}
	return appInfo, nil
}

// Finds the current manifest id of a depot on a branch within parsed app info.
// Returns an error if the manifest id cannot be found.
func ManifestId(appInfo map[string]any, depotId string, branchName string) (string, error) {
	fail := func(err error) (string, error) {
		return "", err
	}
	depots, ok := appInfo["depots"].(map[string]any)
	if !ok {
		return fail(fmt.Errorf("app info contains no depots"))
	}
	depot, ok := depots[depotId].(map[string]any)
	if !ok {
		return fail(fmt.Errorf("depot %s not found", depotId))
	}
	manifestsData, ok := depot["manifests"].(map[string]any)
	if !ok {
		return fail(fmt.Errorf("depot %s contains no manifests", depotId))
	}
	manifestData, ok := manifestsData[branchName].(map[string]any)
	if !ok {
		return fail(fmt.Errorf("depot %s does not contain branch %s", depotId, branchName))
	}
	manifestId, ok := manifestData["gid"].(string)
	if !ok {
		return fail(fmt.Errorf("depot %s, branch %s does not contain manifest gid", depotId, branchName))
	}
	return manifestId, nil
}
