package config

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	berrors "git.home.luguber.info/inful/bodot/internal/errors"
)

// Setting enumerates the keys accepted by `bodot config <key> <value>`.
type Setting int

const (
	SettingUnknown Setting = iota
	SettingProjectName
	SettingMajorVersion
	SettingMinorVersion
	SettingPatchVersion
	SettingMetaVersion
	SettingUseLog
	SettingEngineBinaryPath
	SettingExportOutputPath
	SettingAutoIncrementPatch
	SettingContinueOnExportFailure
)

// Settings lists every configurable key in display order.
func Settings() []Setting {
	return []Setting{
		SettingProjectName,
		SettingMajorVersion,
		SettingMinorVersion,
		SettingPatchVersion,
		SettingMetaVersion,
		SettingUseLog,
		SettingEngineBinaryPath,
		SettingExportOutputPath,
		SettingAutoIncrementPatch,
		SettingContinueOnExportFailure,
	}
}

// String returns the canonical key name.
func (s Setting) String() string {
	switch s {
	case SettingProjectName:
		return "ProjectName"
	case SettingMajorVersion:
		return "MajorVersion"
	case SettingMinorVersion:
		return "MinorVersion"
	case SettingPatchVersion:
		return "PatchVersion"
	case SettingMetaVersion:
		return "MetaVersion"
	case SettingUseLog:
		return "UseLog"
	case SettingEngineBinaryPath:
		return "EngineBinaryPath"
	case SettingExportOutputPath:
		return "ExportOutputPath"
	case SettingAutoIncrementPatch:
		return "AutoIncrementPatch"
	case SettingContinueOnExportFailure:
		return "ContinueOnExportFailure"
	default:
		return "Unknown"
	}
}

// ParseSetting resolves a key case-insensitively. The legacy names
// GodotFilePath and AutoIncrementPath are accepted as aliases.
func ParseSetting(name string) (Setting, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "projectname":
		return SettingProjectName, nil
	case "majorversion":
		return SettingMajorVersion, nil
	case "minorversion":
		return SettingMinorVersion, nil
	case "patchversion":
		return SettingPatchVersion, nil
	case "metaversion":
		return SettingMetaVersion, nil
	case "uselog":
		return SettingUseLog, nil
	case "enginebinarypath", "godotfilepath":
		return SettingEngineBinaryPath, nil
	case "exportoutputpath":
		return SettingExportOutputPath, nil
	case "autoincrementpatch", "autoincrementpath":
		return SettingAutoIncrementPatch, nil
	case "continueonexportfailure":
		return SettingContinueOnExportFailure, nil
	default:
		return SettingUnknown, berrors.UnknownSetting(name)
	}
}

// Apply parses value for the setting and stores it on p. p is left untouched on error.
func (s Setting) Apply(p *Project, value string) error {
	switch s {
	case SettingProjectName:
		p.ProjectName = value
	case SettingMajorVersion:
		n, err := parseVersionPart(s, value)
		if err != nil {
			return err
		}
		p.MajorVersion = n
	case SettingMinorVersion:
		n, err := parseVersionPart(s, value)
		if err != nil {
			return err
		}
		p.MinorVersion = n
	case SettingPatchVersion:
		n, err := parseVersionPart(s, value)
		if err != nil {
			return err
		}
		p.PatchVersion = n
	case SettingMetaVersion:
		if _, err := semver.StrictNewVersion("0.0.0-" + value); err != nil {
			return berrors.InvalidValue(s.String(), value, "not a valid pre-release or build suffix")
		}
		meta := value
		p.MetaVersion = &meta
	case SettingUseLog:
		b, err := parseBool(s, value)
		if err != nil {
			return err
		}
		p.UseLog = b
	case SettingEngineBinaryPath:
		p.EngineBinaryPath = value
	case SettingExportOutputPath:
		p.ExportOutputPath = value
	case SettingAutoIncrementPatch:
		b, err := parseBool(s, value)
		if err != nil {
			return err
		}
		p.AutoIncrementPatch = b
	case SettingContinueOnExportFailure:
		b, err := parseBool(s, value)
		if err != nil {
			return err
		}
		p.ContinueOnExportFailure = b
	default:
		return berrors.UnknownSetting(s.String())
	}
	return nil
}

func parseVersionPart(s Setting, value string) (string, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return "", berrors.InvalidValue(s.String(), value, "must be a non-negative integer")
	}
	return strconv.Itoa(n), nil
}

func parseBool(s Setting, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, berrors.InvalidValue(s.String(), value, "must be true or false")
	}
	return b, nil
}
