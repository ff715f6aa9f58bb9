package assets

import (
	"fmt"
	"path"
	"strings"

	"github.com/Faultbox/wmoexport/pkg/formats"
)

// LoadWMO loads a root file and all of its group files. Groups are located
// through the root's GFID chunk when present, otherwise by the
// "<name>_NNN.wmo" naming convention next to the root.
func (m *Manager) LoadWMO(file string) (*formats.WMO, error) {
	data, err := m.Load(file)
	if err != nil {
		return nil, err
	}

	wmo, err := formats.ParseWMORoot(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file, err)
	}

	numGroups := int(wmo.Header.NumGroups)
	wmo.Groups = make([]formats.WMOGroup, 0, numGroups)

	for i := 0; i < numGroups; i++ {
		var groupData []byte
		if len(wmo.GroupFileIDs) > 0 {
			if i >= len(wmo.GroupFileIDs) {
				return nil, fmt.Errorf("%s: group %d has no file id", file, i)
			}
			groupData, err = m.LoadByID(wmo.GroupFileIDs[i])
		} else {
			groupData, err = m.Load(GroupFileName(file, i))
		}
		if err != nil {
			return nil, fmt.Errorf("loading group %d of %s: %w", i, file, err)
		}

		group, err := formats.ParseWMOGroup(groupData)
		if err != nil {
			return nil, fmt.Errorf("parsing group %d of %s: %w", i, file, err)
		}
		wmo.Groups = append(wmo.Groups, *group)
	}

	return wmo, nil
}

// LoadWMOByID loads a root file by file data id.
func (m *Manager) LoadWMOByID(id uint32) (*formats.WMO, string, error) {
	file, ok := m.Listfile().Path(id)
	if !ok {
		return nil, "", fmt.Errorf("%w: %d", ErrUnknownFileID, id)
	}
	wmo, err := m.LoadWMO(file)
	return wmo, file, err
}

// GroupFileName returns the conventional group file name for a root file.
func GroupFileName(root string, index int) string {
	root = NormalizePath(root)
	ext := path.Ext(root)
	return fmt.Sprintf("%s_%03d%s", strings.TrimSuffix(root, ext), index, ext)
}
