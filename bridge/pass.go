package bridge

// beginPassSystem starts the ui pass of every non manual target with the
// accumulated input, resetting the pending input buffer.
func (ui *UI) beginPassSystem() error {
	for _, entity := range ui.targets.Entities() {
		state, _ := ui.targets.Get(entity)

		if state.Settings.RunManually {
			// host code drives begin/end itself through Contexts
			continue
		}

		state.Ctx.BeginPass(state.Input.Take())
	}

	return nil
}

// endPassSystem finishes the passes begun by beginPassSystem and stores the
// full output for the output processing stage.
func (ui *UI) endPassSystem() error {
	for _, entity := range ui.targets.Entities() {
		state, _ := ui.targets.Get(entity)

		if state.Settings.RunManually {
			continue
		}

		full := state.Ctx.EndPass()
		state.FullOutput = &full
	}

	return nil
}

// processOutputSystem moves the pass results into the render output buffer
// and routes the platform output to the host collaborators.
func (ui *UI) processOutputSystem() error {
	for _, entity := range ui.targets.Entities() {
		state, _ := ui.targets.Get(entity)

		full := state.FullOutput
		if full == nil {
			continue
		}
		state.FullOutput = nil

		state.RenderOutput.Primitives = full.Primitives
		state.RenderOutput.TexturesDelta.Set = append(
			state.RenderOutput.TexturesDelta.Set, full.TexturesDelta.Set...)
		state.RenderOutput.TexturesDelta.Free = append(
			state.RenderOutput.TexturesDelta.Free, full.TexturesDelta.Free...)

		state.Output = full.Platform

		ui.Cursors.Insert(entity, full.Platform.CursorIcon)

		if full.Platform.CopiedText != "" {
			ui.clipboard.SetText(full.Platform.CopiedText)
		}

		if open := full.Platform.OpenUrl; open != nil {
			target := state.Settings.DefaultOpenUrlTarget
			if target == "" {
				target = "_self"
			}
			if open.NewTab {
				target = "_blank"
			}

			ui.opener.Open(open.Url, target)
		}
	}

	return nil
}
