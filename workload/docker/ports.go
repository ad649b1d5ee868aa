package docker

import (
	"sort"
	"strconv"

	"github.com/docker/go-connections/nat"
)

// publishedHostPorts extracts the host ports bound for the container,
// ordered by container port so the first entry is stable across inspects.
// IPv4 and IPv6 bindings of the same port are reported once.
func publishedHostPorts(portMap nat.PortMap) []int {
	keys := make([]nat.Port, 0, len(portMap))
	for p := range portMap {
		keys = append(keys, p)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Int() != keys[j].Int() {
			return keys[i].Int() < keys[j].Int()
		}
		return keys[i].Proto() < keys[j].Proto()
	})

	seen := make(map[int]bool)
	var ports []int
	for _, key := range keys {
		for _, binding := range portMap[key] {
			if binding.HostPort == "" {
				continue
			}
			hostPort, err := strconv.Atoi(binding.HostPort)
			if err != nil || hostPort <= 0 {
				continue
			}
			if seen[hostPort] {
				continue
			}
			seen[hostPort] = true
			ports = append(ports, hostPort)
		}
	}
	return ports
}
