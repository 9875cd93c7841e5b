package config

import (
	"fmt"
	"sort"
)

// presets are the process groups watched on each kind of server.
var presets = map[string][]string{
	"all": {"ascmanager", "BmfCol", "BmfExcReceiver", "BmfExcSender",
		"CctCtl", "ctlkcmdpro", "daccompms", "daccomrss",
		"daccontrol", "dbpoller", "dbserver", "dpckeqpmgr",
		"dpckvarmgr", "EcsSmc", "EcsSys", "ftsserver", "HdvServer",
		"historyserver", "inputmgr", "LoginServer", "opmserver",
		"PasCtl", "PisCtl", "RadCom", "RadCtl", "RadPgr",
		"ReaPrgServer", "scsalarmserver", "scsctlgrcserver",
		"SigCtlServer", "SigDpc", "SigLdt", "SigLoc",
		"taonameserv", "TelSvr", "tmcpex", "tmcsup"},
	"ats": {"ascmanager", "BmfCol", "ctlkcmdpro",
		"daccompms", "daccomrss", "daccontrol", "dbpoller",
		"dbserver", "dpckeqpmgr", "dpckvarmgr", "ftsserver",
		"HdvServer", "inputmgr", "ReaPrgServer", "scsalarmserver",
		"SigCtlServer", "SigDpc", "SigLdt", "SigLoc",
		"taonameserv", "tmcpex", "tmcsup"},
	"cms": {"ascmanager", "BmfCol", "BmfExcReceiver", "BmfExcSender",
		"CctCtl", "ctlkcmdpro", "daccompms", "daccontrol",
		"dbpoller", "dbserver", "dpckeqpmgr", "dpckvarmgr",
		"ftsserver", "HdvServer", "historyserver", "inputmgr",
		"LoginServer", "opmserver", "PasCtl", "PisCtl", "RadCom",
		"RadCtl", "ReaPrgServer", "scsalarmserver",
		"scsctlgrcserver", "taonameserv", "TelSvr"},
	"sms": {"ascmanager", "BmfCol",
		"CctCtl", "ctlkcmdpro", "daccompms", "daccomrss",
		"daccontrol", "dbpoller", "dbserver", "dpckeqpmgr",
		"dpckvarmgr", "EcsSmc", "EcsSys", "ftsserver", "HdvServer",
		"historyserver", "inputmgr", "LoginServer", "PasCtl",
		"PisCtl", "RadCom", "RadCtl", "RadPgr", "ReaPrgServer",
		"scsalarmserver", "scsctlgrcserver", "SigCtlServer",
		"SigDpc", "SigLdt", "SigLoc", "taonameserv", "TelSvr"},
	"dcs": {"ascmanager", "BmfCol",
		"CctCtl", "ctlkcmdpro", "daccompms", "daccomrss",
		"daccontrol", "dbpoller", "dbserver", "dpckeqpmgr",
		"dpckvarmgr", "EcsSmc", "EcsSys", "ftsserver", "HdvServer",
		"historyserver", "inputmgr", "LoginServer", "PasCtl",
		"PisCtl", "RadCom", "RadCtl", "RadPgr", "ReaPrgServer",
		"scsalarmserver", "scsctlgrcserver", "SigCtlServer",
		"SigDpc", "SigLdt", "SigLoc", "taonameserv", "TelSvr",
		"tmcsup"},
	"ecs": {"ascmanager", "BmfCol", "daccompms", "daccomrss",
		"daccontrol", "dbpoller", "dbserver", "dpckeqpmgr",
		"dpckvarmgr", "EcsSmc", "EcsSys", "HdvServer", "inputmgr",
		"ReaPrgServer", "scsalarmserver", "scsctlgrcserver",
		"taonameserv"},
}

// PresetNames returns the known preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns a copy of the processes of a preset.
func Preset(name string) ([]string, bool) {
	procs, ok := presets[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), procs...), true
}

// ResolveProcesses expands preset (if any) and appends names that are not
// already listed. The result keeps first-seen order.
func ResolveProcesses(preset string, names []string) ([]string, error) {
	var procs []string
	if preset != "" {
		p, ok := Preset(preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset '%s' (valid: %v)", preset, PresetNames())
		}
		procs = p
	}

	seen := make(map[string]struct{}, len(procs)+len(names))
	out := make([]string, 0, len(procs)+len(names))
	for _, p := range append(procs, names...) {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("at least one process must be specified")
	}
	return out, nil
}
