package domain

import "sort"

// Region identifies a geographic partition of customers and support staff,
// e.g. "asia-pacific". Each region maps 1:1 to a group in the ticketing
// backend; one reserved group ("Users") is accessible to every role.
type Region string

func (r Region) String() string { return string(r) }

// RegionMap holds the region -> backend group id mapping together with the
// universally accessible Users group id.
type RegionMap struct {
	byRegion     map[Region]int
	byGroup      map[int]Region
	usersGroupID int
}

// NewRegionMap builds the mapping. The Users group id must not collide with
// any region group id.
func NewRegionMap(groups map[Region]int, usersGroupID int) *RegionMap {
	m := &RegionMap{
		byRegion:     make(map[Region]int, len(groups)),
		byGroup:      make(map[int]Region, len(groups)),
		usersGroupID: usersGroupID,
	}
	for region, groupID := range groups {
		m.byRegion[region] = groupID
		m.byGroup[groupID] = region
	}
	return m
}

// GroupFor returns the backend group id for a region.
func (m *RegionMap) GroupFor(region Region) (int, bool) {
	id, ok := m.byRegion[region]
	return id, ok
}

// RegionFor returns the region mapped to a backend group id. The Users
// group belongs to no region.
func (m *RegionMap) RegionFor(groupID int) (Region, bool) {
	region, ok := m.byGroup[groupID]
	return region, ok
}

// UsersGroupID returns the id of the reserved universally accessible group.
func (m *RegionMap) UsersGroupID() int { return m.usersGroupID }

// Regions returns all known regions in stable (sorted) order.
func (m *RegionMap) Regions() []Region {
	regions := make([]Region, 0, len(m.byRegion))
	for region := range m.byRegion {
		regions = append(regions, region)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i] < regions[j] })
	return regions
}

// GroupIDs returns every known group id, region groups plus the Users
// group, in stable (sorted) order.
func (m *RegionMap) GroupIDs() []int {
	ids := make([]int, 0, len(m.byGroup)+1)
	for id := range m.byGroup {
		ids = append(ids, id)
	}
	ids = append(ids, m.usersGroupID)
	sort.Ints(ids)
	return ids
}
