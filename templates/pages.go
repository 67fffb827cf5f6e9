package templates

import (
	"github.com/a-h/templ"

	"bidestimator/services"
)

func ProjectListPage(data ProjectListData, header HeaderData, sidebar SidebarData) templ.Component {
	return page("project_list", data, header, sidebar)
}

func ProjectListContent(data ProjectListData) templ.Component {
	return fragment("project_list", "content", data)
}

func ProjectFormPage(data ProjectFormData, header HeaderData, sidebar SidebarData) templ.Component {
	return page("project_form", data, header, sidebar)
}

func ProjectFormContent(data ProjectFormData) templ.Component {
	return fragment("project_form", "content", data)
}

func ProjectViewPage(data ProjectViewData, header HeaderData, sidebar SidebarData) templ.Component {
	return page("project_view", data, header, sidebar)
}

func ProjectViewContent(data ProjectViewData) templ.Component {
	return fragment("project_view", "content", data)
}

// EstimateEditorBlock is the #estimate-editor fragment re-rendered after every
// line item change.
func EstimateEditorBlock(data EstimateEditor) templ.Component {
	return fragment("project_view", "estimate_editor", data)
}

func DraftPage(data DraftViewData, header HeaderData, sidebar SidebarData) templ.Component {
	return page("draft", data, header, sidebar)
}

func DraftContent(data DraftViewData) templ.Component {
	return fragment("draft", "content", data)
}

func MaterialListPage(data MaterialListData, header HeaderData, sidebar SidebarData) templ.Component {
	return page("material_list", data, header, sidebar)
}

func MaterialListContent(data MaterialListData) templ.Component {
	return fragment("material_list", "content", data)
}

func MaterialImportPage(data MaterialImportData, header HeaderData, sidebar SidebarData) templ.Component {
	return page("material_import", data, header, sidebar)
}

func MaterialImportContent(data MaterialImportData) templ.Component {
	return fragment("material_import", "content", data)
}

func MaterialValidationResults(data MaterialValidationData) templ.Component {
	return fragment("material_import", "validation_results", data)
}

func MaterialImportOutcome(result *services.ImportResult) templ.Component {
	return fragment("material_import", "import_outcome", result)
}

func SettingsPage(data SettingsData, header HeaderData, sidebar SidebarData) templ.Component {
	return page("settings", data, header, sidebar)
}

func SettingsContent(data SettingsData) templ.Component {
	return fragment("settings", "content", data)
}
