// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package tools

import "net/http"

// Query paging bounds.
const (
	DefaultLimit = 100
	MinLimit     = 1
	MaxLimit     = 5000
)

func intPtr(i int) *int { return &i }

// queryParams are shared by every filtered list query.
func queryParams(sortExample string) []Param {
	return []Param{
		{Name: "filter", Type: TypeString, Description: "FQL filter expression"},
		{
			Name:        "limit",
			Type:        TypeInteger,
			Description: "Maximum number of results (1-5000)",
			Default:     DefaultLimit,
			Minimum:     intPtr(MinLimit),
			Maximum:     intPtr(MaxLimit),
		},
		{Name: "offset", Type: TypeInteger, Description: "Offset for pagination", Default: 0, Minimum: intPtr(0)},
		{Name: "sort", Type: TypeString, Description: "Sort order, e.g. " + sortExample},
	}
}

func idsParam(name, what string) Param {
	return Param{
		Name:        name,
		Type:        TypeStringList,
		Description: "List of " + what + " IDs",
		Required:    true,
		Upstream:    "ids",
	}
}

// falconTools is the fixed operation set. Order is the order tools are listed.
func falconTools() []*Descriptor {
	return []*Descriptor{
		{
			Name:        "query_hosts",
			Description: "Query hosts/devices in CrowdStrike Falcon and return matching device IDs",
			Method:      http.MethodGet,
			Path:        "/devices/queries/devices/v1",
			Shape:       ShapeQuery,
			Params:      queryParams("hostname.asc"),
		},
		{
			Name:        "get_host_details",
			Description: "Get detailed information about specific hosts/devices",
			Method:      http.MethodGet,
			Path:        "/devices/entities/devices/v2",
			Shape:       ShapeLookup,
			Params:      []Param{idsParam("device_ids", "device")},
		},
		{
			Name:        "query_detections",
			Description: "Query detections in CrowdStrike Falcon and return matching detection IDs",
			Method:      http.MethodGet,
			Path:        "/detects/queries/detects/v1",
			Shape:       ShapeQuery,
			Params:      queryParams("last_behavior.desc"),
		},
		{
			Name:        "get_detection_details",
			Description: "Get detailed information about specific detections",
			Method:      http.MethodPost,
			Path:        "/detects/entities/summaries/GET/v1",
			Shape:       ShapeLookup,
			Params:      []Param{idsParam("detection_ids", "detection")},
		},
		{
			Name:        "update_detection_status",
			Description: "Update the status, assignee or comment of detections",
			Method:      http.MethodPost,
			Path:        "/detects/entities/detects/v2",
			Shape:       ShapeMutation,
			Params: []Param{
				idsParam("detection_ids", "detection"),
				{
					Name:        "status",
					Type:        TypeString,
					Description: "New status: new, in_progress, true_positive, false_positive or ignored",
					Required:    true,
				},
				{Name: "assigned_to_uuid", Type: TypeString, Description: "UUID of the user to assign the detections to"},
				{Name: "comment", Type: TypeString, Description: "Comment to add to the detections"},
			},
		},
		{
			Name:        "query_iocs",
			Description: "Query custom indicators of compromise (IOCs)",
			Method:      http.MethodGet,
			Path:        "/iocs/queries/indicators/v1",
			Shape:       ShapeQuery,
			Params:      queryParams("created_on.desc"),
		},
		{
			Name:        "create_ioc",
			Description: "Create a custom indicator of compromise (IOC)",
			Method:      http.MethodPost,
			Path:        "/iocs/entities/indicators/v1",
			Shape:       ShapeMutation,
			Params: []Param{
				{Name: "type", Type: TypeString, Description: "IOC type: domain, ipv4, ipv6, md5 or sha256", Required: true},
				{Name: "value", Type: TypeString, Description: "IOC value", Required: true},
				{Name: "action", Type: TypeString, Description: "Action to take: detect, prevent or allow", Required: true},
				{
					Name:        "platforms",
					Type:        TypeStringList,
					Description: "Platforms the IOC applies to, e.g. Windows, Mac, Linux",
					Required:    true,
				},
				{Name: "severity", Type: TypeString, Description: "Severity level"},
				{Name: "description", Type: TypeString, Description: "Description of the IOC"},
				{Name: "expiration", Type: TypeString, Description: "Expiration timestamp in ISO 8601 format"},
				{Name: "applied_globally", Type: TypeBoolean, Description: "Apply the IOC to all hosts"},
				{Name: "host_groups", Type: TypeStringList, Description: "Host group IDs the IOC applies to"},
			},
		},
		{
			Name:        "delete_ioc",
			Description: "Delete custom indicators of compromise (IOCs)",
			Method:      http.MethodDelete,
			Path:        "/iocs/entities/indicators/v1",
			Shape:       ShapeMutation,
			Params:      []Param{idsParam("ioc_ids", "IOC")},
		},
		{
			Name:        "query_host_groups",
			Description: "Query host groups and return matching group IDs",
			Method:      http.MethodGet,
			Path:        "/devices/queries/host-groups/v1",
			Shape:       ShapeQuery,
			Params:      queryParams("name.asc"),
		},
		{
			Name:        "get_host_group_details",
			Description: "Get detailed information about specific host groups",
			Method:      http.MethodGet,
			Path:        "/devices/entities/host-groups/v1",
			Shape:       ShapeLookup,
			Params:      []Param{idsParam("group_ids", "host group")},
		},
		{
			Name:        "query_prevention_policies",
			Description: "Query prevention policies and return matching policy IDs",
			Method:      http.MethodGet,
			Path:        "/policy/queries/prevention/v1",
			Shape:       ShapeQuery,
			Params:      queryParams("precedence.asc"),
		},
		{
			Name:        "get_prevention_policy_details",
			Description: "Get detailed information about specific prevention policies",
			Method:      http.MethodGet,
			Path:        "/policy/entities/prevention/v1",
			Shape:       ShapeLookup,
			Params:      []Param{idsParam("policy_ids", "prevention policy")},
		},
		{
			Name:        "query_sensor_update_policies",
			Description: "Query sensor update policies and return matching policy IDs",
			Method:      http.MethodGet,
			Path:        "/policy/queries/sensor-update/v1",
			Shape:       ShapeQuery,
			Params:      queryParams("precedence.asc"),
		},
		{
			Name:        "get_sensor_update_policy_details",
			Description: "Get detailed information about specific sensor update policies",
			Method:      http.MethodGet,
			Path:        "/policy/entities/sensor-update/v2",
			Shape:       ShapeLookup,
			Params:      []Param{idsParam("policy_ids", "sensor update policy")},
		},
	}
}
